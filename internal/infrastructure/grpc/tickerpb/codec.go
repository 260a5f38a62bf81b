package tickerpb

import (
	"fmt"
	"time"

	"ticker-service/internal/domain"

	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	fieldAsOf    = "as_of"
	fieldTickers = "tickers"
	fieldFrozen  = "isFrozen"
)

type decimalField struct {
	name string
	get  func(*domain.TickerFields) *decimal.Decimal
}

var decimalFields = []decimalField{
	{"last", func(f *domain.TickerFields) *decimal.Decimal { return &f.Last }},
	{"lowestAsk", func(f *domain.TickerFields) *decimal.Decimal { return &f.LowestAsk }},
	{"highestBid", func(f *domain.TickerFields) *decimal.Decimal { return &f.HighestBid }},
	{"high24hr", func(f *domain.TickerFields) *decimal.Decimal { return &f.High24h }},
	{"low24hr", func(f *domain.TickerFields) *decimal.Decimal { return &f.Low24h }},
	{"baseVolume", func(f *domain.TickerFields) *decimal.Decimal { return &f.BaseVolume }},
	{"quoteVolume", func(f *domain.TickerFields) *decimal.Decimal { return &f.QuoteVolume }},
	{"percentChange", func(f *domain.TickerFields) *decimal.Decimal { return &f.PercentChange }},
}

// Encode converts a feed response to its wire form. Decimals travel as strings
// to keep their exact value.
func Encode(in domain.UpstreamTickers) (*structpb.Struct, error) {
	tickers := make(map[string]any, len(in.Tickers))
	for pair, f := range in.Tickers {
		f := f
		m := make(map[string]any, len(decimalFields)+1)
		for _, d := range decimalFields {
			m[d.name] = d.get(&f).String()
		}
		m[fieldFrozen] = f.Frozen
		tickers[pair] = m
	}
	return structpb.NewStruct(map[string]any{
		fieldAsOf:    in.AsOf.UTC().Format(time.RFC3339Nano),
		fieldTickers: tickers,
	})
}

// Decode is the inverse of Encode. Any missing or unparsable field makes the
// whole response malformed.
func Decode(s *structpb.Struct) (domain.UpstreamTickers, error) {
	fields := s.GetFields()
	asOf, err := time.Parse(time.RFC3339Nano, fields[fieldAsOf].GetStringValue())
	if err != nil {
		return domain.UpstreamTickers{}, fmt.Errorf("%w: as_of: %v", domain.ErrUpstreamMalformed, err)
	}
	raw := fields[fieldTickers].GetStructValue()
	if raw == nil {
		return domain.UpstreamTickers{}, fmt.Errorf("%w: missing tickers", domain.ErrUpstreamMalformed)
	}
	out := domain.UpstreamTickers{
		AsOf:    asOf.UTC(),
		Tickers: make(map[string]domain.TickerFields, len(raw.GetFields())),
	}
	for pair, v := range raw.GetFields() {
		m := v.GetStructValue().GetFields()
		if m == nil {
			return domain.UpstreamTickers{}, fmt.Errorf("%w: %s: not an object", domain.ErrUpstreamMalformed, pair)
		}
		var f domain.TickerFields
		for _, d := range decimalFields {
			sv, ok := m[d.name]
			if !ok {
				return domain.UpstreamTickers{}, fmt.Errorf("%w: %s: missing %s", domain.ErrUpstreamMalformed, pair, d.name)
			}
			dec, err := decimal.NewFromString(sv.GetStringValue())
			if err != nil {
				return domain.UpstreamTickers{}, fmt.Errorf("%w: %s.%s: %v", domain.ErrUpstreamMalformed, pair, d.name, err)
			}
			*d.get(&f) = dec
		}
		f.Frozen = m[fieldFrozen].GetBoolValue()
		out.Tickers[pair] = f
	}
	return out, nil
}
