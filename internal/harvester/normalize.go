package harvester

// Normalize maps a raw listing payload into the fixed flat record schema.
// It is pure and deterministic; the only failures are payload fields whose
// shape is not what the source embeds, reported as normalization errors.
func Normalize(p Payload, saleType SaleType) (Record, error) {
	record := Record{SaleType: Some(string(saleType))}

	price, err := normalizePrice(p, saleType)
	if err != nil {
		return Record{}, err
	}
	record.Price = price

	furnishedBranch := "sale"
	if saleType == SaleTypeRent {
		furnishedBranch = "rental"
	}
	if record.Furnished, err = p.Bool("transaction", furnishedBranch, "isFurnished"); err != nil {
		return Record{}, err
	}

	if record.Locality, err = p.Scalar("property", "location", "postalCode"); err != nil {
		return Record{}, err
	}
	if record.PropertyType, err = p.Scalar("property", "type"); err != nil {
		return Record{}, err
	}
	if record.PropertySubtype, err = p.Scalar("property", "subtype"); err != nil {
		return Record{}, err
	}
	if record.Bedrooms, err = p.Number("property", "bedroomCount"); err != nil {
		return Record{}, err
	}
	if record.LivingArea, err = p.Number("property", "netHabitableSurface"); err != nil {
		return Record{}, err
	}
	if record.KitchenType, err = p.Scalar("property", "kitchen", "type"); err != nil {
		return Record{}, err
	}
	if record.FireplaceCount, err = p.Number("property", "fireplaceCount"); err != nil {
		return Record{}, err
	}
	if record.TerraceSurface, err = p.Number("property", "terraceSurface"); err != nil {
		return Record{}, err
	}
	if record.GardenSurface, err = p.Number("property", "gardenSurface"); err != nil {
		return Record{}, err
	}
	// The source populates "Surface of the plot" from the net habitable
	// surface. Known quirk of the upstream data pipeline, kept as-is.
	if record.PlotSurface, err = p.Number("property", "netHabitableSurface"); err != nil {
		return Record{}, err
	}
	if record.FrontageCount, err = p.Number("property", "building", "facadeCount"); err != nil {
		return Record{}, err
	}
	if record.SwimmingPool, err = p.Bool("property", "hasSwimmingPool"); err != nil {
		return Record{}, err
	}
	if record.BuildingCondition, err = p.Scalar("property", "building", "condition"); err != nil {
		return Record{}, err
	}

	return record, nil
}

// normalizePrice applies the sale/rent-specific price rule. For rent the
// price is monthly rent plus monthly costs only when both are present and
// non-zero; a partial sum would be misleading, so anything less yields the
// sentinel.
func normalizePrice(p Payload, saleType SaleType) (Value, error) {
	if saleType == SaleTypeSale {
		return p.Number("transaction", "sale", "price")
	}

	rent, err := p.Number("transaction", "rental", "monthlyRentalPrice")
	if err != nil {
		return None, err
	}
	costs, err := p.Number("transaction", "rental", "monthlyRentalCosts")
	if err != nil {
		return None, err
	}

	rentVal, rentOK := rent.Float()
	costsVal, costsOK := costs.Float()
	if !rentOK || !costsOK || rentVal == 0 || costsVal == 0 {
		return None, nil
	}
	return Some(rentVal + costsVal), nil
}
