package textfold

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "nome da variacao", Fold("  Nome da   Variação "))
	assert.Equal(t, "id do pedido", Fold("ID do pedido:"))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "agua_luz", Slug("Água/Luz"))
	assert.Equal(t, "servicos_contabeis", Slug("Serviços  contábeis"))
	assert.Equal(t, Slug("Energia Elétrica"), Slug("energia eletrica"))
	assert.Equal(t, "", Slug(" / "))
}
