package catalog

import "testing"

func TestValidateParsesFields(t *testing.T) {
	p, err := AddProductInput{
		Name:  "  Desk Lamp  ",
		Type:  TypeElectronics,
		Price: "19.99",
		Tax:   "18",
	}.Validate()
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if p.Name != "Desk Lamp" || p.Type != TypeElectronics || p.Price != 19.99 || p.Tax != 18 {
		t.Fatalf("product = %+v", p)
	}
	if p.IsFavorite {
		t.Error("new products must not start as favorites")
	}
}

func TestValidateDefaultsType(t *testing.T) {
	p, err := AddProductInput{Name: "X", Price: "1", Tax: "0"}.Validate()
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if p.Type != TypeProduct {
		t.Fatalf("type = %q, want %q", p.Type, TypeProduct)
	}
}

func TestValidateReportsFailingField(t *testing.T) {
	cases := []struct {
		name  string
		in    AddProductInput
		field string
	}{
		{"blank name", AddProductInput{Name: "   ", Price: "1", Tax: "0"}, "product_name"},
		{"negative price", AddProductInput{Name: "X", Price: "-2", Tax: "0"}, "price"},
		{"negative tax", AddProductInput{Name: "X", Price: "1", Tax: "-0.1"}, "tax"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.in.Validate()
			ve, ok := AsValidation(err)
			if !ok {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
			if ve.Field != tc.field {
				t.Errorf("field = %q, want %q", ve.Field, tc.field)
			}
		})
	}
}
