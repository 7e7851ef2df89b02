package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/seller-finance-api/internal/application/dto"
	"github.com/jhoicas/seller-finance-api/internal/domain"
	"github.com/jhoicas/seller-finance-api/internal/domain/finance"
)

const dateLayout = "2006-01-02"

// periodResolver traduce ?preset= o ?from=&to= al período en la zona horaria del negocio.
type periodResolver struct {
	loc *time.Location
	now func() time.Time
}

func newPeriodResolver(loc *time.Location) periodResolver {
	if loc == nil {
		loc = time.UTC
	}
	return periodResolver{loc: loc, now: time.Now}
}

// fromQuery con from/to presentes el preset se ignora (período personalizado).
func (r periodResolver) fromQuery(c *fiber.Ctx) (finance.Period, error) {
	var q dto.PeriodQuery
	if err := c.QueryParser(&q); err != nil {
		return finance.Period{}, fmt.Errorf("%w: parámetros de período inválidos", domain.ErrInvalidInput)
	}
	return r.resolve(q)
}

func (r periodResolver) resolve(q dto.PeriodQuery) (finance.Period, error) {
	now := r.now().In(r.loc)
	from, to := strings.TrimSpace(q.From), strings.TrimSpace(q.To)
	if from == "" && to == "" {
		return finance.ResolvePeriod(finance.Preset(strings.TrimSpace(q.Preset)), now, nil, nil)
	}
	if from == "" || to == "" {
		return finance.Period{}, fmt.Errorf("%w: from y to deben informarse juntos", domain.ErrInvalidInput)
	}
	start, err := time.ParseInLocation(dateLayout, from, r.loc)
	if err != nil {
		return finance.Period{}, fmt.Errorf("%w: from debe tener formato AAAA-MM-DD", domain.ErrInvalidInput)
	}
	end, err := time.ParseInLocation(dateLayout, to, r.loc)
	if err != nil {
		return finance.Period{}, fmt.Errorf("%w: to debe tener formato AAAA-MM-DD", domain.ErrInvalidInput)
	}
	return finance.ResolvePeriod(finance.PresetCustom, now, &start, &end)
}
