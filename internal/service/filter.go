package service

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/GTDGit/market_api/internal/repository"
)

// Keys of the loosely typed filter body.
const (
	filterMinPrice = "minPrice"
	filterMaxPrice = "maxPrice"
	filterCategory = "category"
	filterBrand    = "brand"
)

// BuildProductFilter turns an untyped parameter bag into a ProductFilter.
// Missing, empty, zero and unparseable prices are ignored. Category and brand
// take a scalar or a list; an all-numeric list matches ids, anything else
// matches names.
func BuildProductFilter(params map[string]interface{}) repository.ProductFilter {
	var f repository.ProductFilter
	f.MinPrice = parsePrice(params[filterMinPrice])
	f.MaxPrice = parsePrice(params[filterMaxPrice])
	f.CategoryIDs, f.CategoryNames = parseMembership(params[filterCategory])
	f.BrandIDs, f.BrandNames = parseMembership(params[filterBrand])
	return f
}

func parsePrice(v interface{}) *decimal.Decimal {
	var (
		d   decimal.Decimal
		err error
	)
	switch x := v.(type) {
	case string:
		d, err = decimal.NewFromString(strings.TrimSpace(x))
	case json.Number:
		d, err = decimal.NewFromString(x.String())
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil
		}
		d = decimal.NewFromFloat(x)
	case int:
		d = decimal.NewFromInt(int64(x))
	case int64:
		d = decimal.NewFromInt(x)
	default:
		return nil
	}
	if err != nil || d.IsZero() {
		return nil
	}
	return &d
}

func parseMembership(v interface{}) ([]int64, []string) {
	var values []string
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []interface{}:
		for _, el := range x {
			if s, ok := scalarString(el); ok {
				values = append(values, s)
			}
		}
	case []string:
		for _, el := range x {
			if s, ok := scalarString(el); ok {
				values = append(values, s)
			}
		}
	default:
		if s, ok := scalarString(x); ok {
			values = append(values, s)
		}
	}
	if len(values) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(values))
	for _, s := range values {
		id, ok := parseID(s)
		if !ok {
			return nil, values
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// scalarString renders a JSON scalar as text. Integral floats lose their ".0"
// so 5 and "5" are the same id.
func scalarString(v interface{}) (string, bool) {
	var s string
	switch x := v.(type) {
	case string:
		s = strings.TrimSpace(x)
	case json.Number:
		s = x.String()
	case float64:
		if x == math.Trunc(x) && !math.IsInf(x, 0) {
			s = strconv.FormatFloat(x, 'f', -1, 64)
		} else {
			s = fmt.Sprint(x)
		}
	case int:
		s = strconv.Itoa(x)
	case int64:
		s = strconv.FormatInt(x, 10)
	default:
		return "", false
	}
	return s, s != ""
}

func parseID(s string) (int64, bool) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.ParseInt(s, 10, 64)
	return id, err == nil
}
