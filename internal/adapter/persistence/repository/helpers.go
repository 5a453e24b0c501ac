package repository

import (
	"os"
	"time"

	"offer_negotiation/internal/domain/entities"
)

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

// termColumns is the flat, canonical-string form of NegotiationTerms shared by
// every durable adapter.
type termColumns struct {
	Price     *string
	Date      *string
	Time      *string
	Materials *string
	Scope     *string
}

func toTermColumns(t entities.NegotiationTerms) termColumns {
	return termColumns{
		Price:     t.Value(entities.TermPrice),
		Date:      t.Value(entities.TermDate),
		Time:      t.Value(entities.TermTime),
		Materials: t.Value(entities.TermMaterials),
		Scope:     t.Value(entities.TermScope),
	}
}

func (c termColumns) terms() (entities.NegotiationTerms, error) {
	out := entities.NegotiationTerms{}
	values := map[entities.TermField]*string{
		entities.TermPrice:     c.Price,
		entities.TermDate:      c.Date,
		entities.TermTime:      c.Time,
		entities.TermMaterials: c.Materials,
		entities.TermScope:     c.Scope,
	}
	for _, f := range entities.TermFields {
		var err error
		if out, err = out.With(f, values[f]); err != nil {
			return entities.NegotiationTerms{}, err
		}
	}
	return out, nil
}
