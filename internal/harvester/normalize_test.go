package harvester

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fullPayload() Payload {
	return Payload{
		"property": map[string]any{
			"location":            map[string]any{"postalCode": "2800"},
			"type":                "HOUSE",
			"subtype":             "VILLA",
			"bedroomCount":        float64(4),
			"netHabitableSurface": float64(220),
			"kitchen":             map[string]any{"type": "HYPER_EQUIPPED"},
			"fireplaceCount":      float64(1),
			"terraceSurface":      float64(25),
			"gardenSurface":       float64(300),
			"building": map[string]any{
				"facadeCount": float64(4),
				"condition":   "GOOD",
			},
			"hasSwimmingPool": true,
		},
		"transaction": map[string]any{
			"sale": map[string]any{
				"price":       float64(250000),
				"isFurnished": false,
			},
			"rental": map[string]any{
				"monthlyRentalPrice": float64(800),
				"monthlyRentalCosts": float64(50),
				"isFurnished":        true,
			},
		},
	}
}

func TestNormalizeSale(t *testing.T) {
	record, err := Normalize(fullPayload(), SaleTypeSale)
	assert.NoError(t, err)

	assert.Equal(t, float64(250000), record.Price.Any())
	assert.Equal(t, "sale", record.SaleType.Any())
	assert.Equal(t, "2800", record.Locality.Any())
	assert.Equal(t, "HOUSE", record.PropertyType.Any())
	assert.Equal(t, "VILLA", record.PropertySubtype.Any())
	assert.Equal(t, float64(4), record.Bedrooms.Any())
	assert.Equal(t, float64(220), record.LivingArea.Any())
	assert.Equal(t, "HYPER_EQUIPPED", record.KitchenType.Any())
	assert.Equal(t, false, record.Furnished.Any())
	assert.Equal(t, float64(1), record.FireplaceCount.Any())
	assert.Equal(t, float64(25), record.TerraceSurface.Any())
	assert.Equal(t, float64(300), record.GardenSurface.Any())
	assert.Equal(t, float64(4), record.FrontageCount.Any())
	assert.Equal(t, true, record.SwimmingPool.Any())
	assert.Equal(t, "GOOD", record.BuildingCondition.Any())

	// Plot surface mirrors the living area, as the source does
	assert.Equal(t, record.LivingArea.Any(), record.PlotSurface.Any())
}

func TestNormalizeRentPrice(t *testing.T) {
	record, err := Normalize(fullPayload(), SaleTypeRent)
	assert.NoError(t, err)
	assert.Equal(t, float64(850), record.Price.Any())
	assert.Equal(t, "rent", record.SaleType.Any())
	// Furnished comes from the rental branch in rent mode
	assert.Equal(t, true, record.Furnished.Any())
}

func TestNormalizeRentPriceBothOrNeither(t *testing.T) {
	// Missing costs: the partial sum must not leak into the record
	payload := Payload{
		"transaction": map[string]any{
			"rental": map[string]any{
				"monthlyRentalPrice": float64(800),
				"monthlyRentalCosts": nil,
			},
		},
	}
	record, err := Normalize(payload, SaleTypeRent)
	assert.NoError(t, err)
	assert.False(t, record.Price.Present())
	assert.Equal(t, "false", record.Price.Cell())

	// Zero costs count as missing too
	payload = Payload{
		"transaction": map[string]any{
			"rental": map[string]any{
				"monthlyRentalPrice": float64(800),
				"monthlyRentalCosts": float64(0),
			},
		},
	}
	record, err = Normalize(payload, SaleTypeRent)
	assert.NoError(t, err)
	assert.False(t, record.Price.Present())
}

func TestNormalizeSalePriceAbsent(t *testing.T) {
	record, err := Normalize(Payload{}, SaleTypeSale)
	assert.NoError(t, err)
	assert.False(t, record.Price.Present())
}

func TestNormalizeShapeError(t *testing.T) {
	payload := Payload{
		"property": map[string]any{
			"bedroomCount": "four",
		},
	}
	_, err := Normalize(payload, SaleTypeSale)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "property.bedroomCount")
}

func TestRowColumnStability(t *testing.T) {
	full, err := Normalize(fullPayload(), SaleTypeSale)
	assert.NoError(t, err)
	sparse, err := Normalize(Payload{}, SaleTypeSale)
	assert.NoError(t, err)

	assert.Len(t, full.Row(), len(Columns))
	assert.Len(t, sparse.Row(), len(Columns))

	// Missing fields are written as the sentinel, never omitted
	row := sparse.Row()
	for i, col := range Columns {
		if col == "Type of sale" {
			assert.Equal(t, "sale", row[i])
			continue
		}
		assert.Equal(t, "false", row[i], "column %q", col)
	}
}
