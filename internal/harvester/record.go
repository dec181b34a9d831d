package harvester

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Columns is the fixed output header. The order is significant: it is the
// column order of every row ever written, regardless of which fields a
// given record populated.
var Columns = []string{
	"Locality",
	"Type of property",
	"Subtype of property",
	"Price",
	"Type of sale",
	"Bedrooms",
	"Living area",
	"Kitchen type",
	"Furnished",
	"How many fireplaces?",
	"Terrace surface",
	"Garden surface",
	"Surface of the plot",
	"Number of frontages",
	"Swimming pool",
	"Building condition",
}

// Value is a record cell: either a scalar value or the absent sentinel.
// Absent cells render as the literal "false" in every output format, so a
// genuinely absent field and a boolean false are indistinguishable in the
// output.
type Value struct {
	v       any
	present bool
}

// Some wraps a scalar into a present Value
func Some(v any) Value {
	return Value{v: v, present: true}
}

// None is the absent sentinel
var None = Value{}

// Present reports whether the cell holds a value
func (v Value) Present() bool {
	return v.present
}

// Any returns the wrapped scalar, or nil when absent
func (v Value) Any() any {
	if !v.present {
		return nil
	}
	return v.v
}

// Float returns the wrapped number, false when absent or not a number
func (v Value) Float() (float64, bool) {
	if !v.present {
		return 0, false
	}
	f, ok := v.v.(float64)
	return f, ok
}

// Cell renders the value for tabular output
func (v Value) Cell() string {
	if !v.present {
		return "false"
	}
	switch t := v.v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// MarshalJSON renders absent cells as the JSON literal false
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.present {
		return []byte("false"), nil
	}
	return json.Marshal(v.v)
}

// Record is one listing normalized into the fixed flat schema
type Record struct {
	Locality          Value `json:"locality"`
	PropertyType      Value `json:"property_type"`
	PropertySubtype   Value `json:"property_subtype"`
	Price             Value `json:"price"`
	SaleType          Value `json:"sale_type"`
	Bedrooms          Value `json:"bedrooms"`
	LivingArea        Value `json:"living_area"`
	KitchenType       Value `json:"kitchen_type"`
	Furnished         Value `json:"furnished"`
	FireplaceCount    Value `json:"fireplace_count"`
	TerraceSurface    Value `json:"terrace_surface"`
	GardenSurface     Value `json:"garden_surface"`
	PlotSurface       Value `json:"plot_surface"`
	FrontageCount     Value `json:"frontage_count"`
	SwimmingPool      Value `json:"swimming_pool"`
	BuildingCondition Value `json:"building_condition"`
}

// Row renders the record as cells in Columns order
func (r Record) Row() []string {
	return []string{
		r.Locality.Cell(),
		r.PropertyType.Cell(),
		r.PropertySubtype.Cell(),
		r.Price.Cell(),
		r.SaleType.Cell(),
		r.Bedrooms.Cell(),
		r.LivingArea.Cell(),
		r.KitchenType.Cell(),
		r.Furnished.Cell(),
		r.FireplaceCount.Cell(),
		r.TerraceSurface.Cell(),
		r.GardenSurface.Cell(),
		r.PlotSurface.Cell(),
		r.FrontageCount.Cell(),
		r.SwimmingPool.Cell(),
		r.BuildingCondition.Cell(),
	}
}
