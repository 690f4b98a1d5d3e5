package property

// View is the listing as rendered to a particular viewer.
type View struct {
	Property
	Price       *float64 `json:"price"`
	PriceHidden bool     `json:"price_hidden"`
}

// ViewFor withholds the price from anonymous viewers when it is only given on request.
func ViewFor(property Property, authenticated bool) View {
	view := View{Property: property.Clone()}
	if property.PriceOnRequest && !authenticated {
		view.PriceHidden = true
		view.Property.Price = 0
		return view
	}
	price := property.Price
	view.Price = &price
	return view
}

func ViewsFor(properties []Property, authenticated bool) []View {
	views := make([]View, 0, len(properties))
	for _, property := range properties {
		views = append(views, ViewFor(property, authenticated))
	}
	return views
}

// ContactPhone resolves who answers for the listing.
func ContactPhone(property Property, ownerPhone string, adminPhone string) string {
	if property.ContactOverride == ContactAdmin {
		return adminPhone
	}
	return ownerPhone
}
