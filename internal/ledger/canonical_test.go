package ledger

import "testing"

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"gasto", "GASTO"},
		{"Sálario", "SALARIO"},
		{"transferência", "TRANSFERENCIA"},
		{"saúde", "SAUDE"},
		{"férias", "FERIAS"},
		{"ALIMENTAÇÃO", "ALIMENTACAO"},
		{"", ""},
		{"já normalizado 123", "JA NORMALIZADO 123"},
	}
	for _, tt := range tests {
		if got := Canonicalize(tt.in); got != tt.want {
			t.Errorf("Canonicalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTypeAliasesCoverCanonicalNames(t *testing.T) {
	// Every alias must point at one of the three canonical type names.
	canonical := map[string]bool{"INCOME": true, "EXPENSES": true, "TRANSFER": true}
	for alias, target := range typeAliases {
		if alias != Canonicalize(alias) {
			t.Errorf("alias %q is not canonicalized", alias)
		}
		if !canonical[target] {
			t.Errorf("alias %q maps to unknown type %q", alias, target)
		}
	}
}
