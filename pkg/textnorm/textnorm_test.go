package textnorm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/sistema-comercial/pkg/textnorm"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "pao de queijo", textnorm.Fold("Pão de Queijo"))
	assert.Equal(t, "acucar", textnorm.Fold("AÇÚCAR"))
}

func TestToken(t *testing.T) {
	assert.Equal(t, "FORNECEDOR", textnorm.Token("  fornecedor "))
	assert.Equal(t, "", textnorm.Token("   "))
}

func TestContains(t *testing.T) {
	assert.True(t, textnorm.Contains("Café Especial", "cafe"))
	assert.True(t, textnorm.Contains("Leite Integral", "LEITE"))
	assert.False(t, textnorm.Contains("Arroz", "feijão"))
}
