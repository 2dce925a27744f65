package checksum

import (
	"strings"
	"testing"

	"github.com/anmolsh/blockbridge/internal/models"
)

func allStrategies() []Strategy {
	return []Strategy{Rolling32{}, CRC32{}, XXHash{}}
}

func TestSumDeterministic(t *testing.T) {
	payloads := [][]byte{
		nil,
		[]byte(""),
		[]byte("a"),
		[]byte(`{"settings":{"board":"uno"}}`),
		[]byte(strings.Repeat("workspace", 1000)),
	}

	for _, s := range allStrategies() {
		t.Run(s.Name(), func(t *testing.T) {
			for _, p := range payloads {
				first := s.Sum(p)
				second := s.Sum(p)
				if first != second {
					t.Errorf("Sum(%q) not deterministic: %q then %q", p, first, second)
				}
			}
		})
	}
}

func TestSumDetectsSingleByteChange(t *testing.T) {
	base := []byte(`{"profile":{"email":"alice@example.com","displayName":"Alice"}}`)

	for _, s := range allStrategies() {
		t.Run(s.Name(), func(t *testing.T) {
			want := s.Sum(base)
			for i := range base {
				mutated := append([]byte(nil), base...)
				mutated[i] ^= 0x01
				if got := s.Sum(mutated); got == want {
					t.Errorf("byte %d flipped but tag unchanged (%s)", i, got)
				}
			}
			// Truncation must also change the tag.
			if got := s.Sum(base[:len(base)-1]); got == want {
				t.Errorf("truncated payload produced same tag %s", got)
			}
		})
	}
}

func TestRolling32KnownValues(t *testing.T) {
	// h = h*31 + b, matching the legacy client's tags.
	tests := []struct {
		in   string
		want string
	}{
		{"", "0"},
		{"a", "61"},
		{"ab", "c21"},
		{"hello", "5e918d2"},
	}
	for _, tt := range tests {
		if got := (Rolling32{}).Sum([]byte(tt.in)); got != tt.want {
			t.Errorf("Rolling32.Sum(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTagEqualValuesEqualTags(t *testing.T) {
	board := "mega"
	a := models.LegacyBundle{
		Settings: &models.LegacySettings{Board: &board},
		Projects: []models.LegacyProject{{ID: "p1", Name: "Blink", Workspace: "<xml></xml>"}},
	}
	boardCopy := "mega"
	b := models.LegacyBundle{
		Settings: &models.LegacySettings{Board: &boardCopy},
		Projects: []models.LegacyProject{{ID: "p1", Name: "Blink", Workspace: "<xml></xml>"}},
	}

	for _, s := range allStrategies() {
		tagA, err := Tag(s, a)
		if err != nil {
			t.Fatalf("Tag failed: %v", err)
		}
		tagB, err := Tag(s, b)
		if err != nil {
			t.Fatalf("Tag failed: %v", err)
		}
		if tagA != tagB {
			t.Errorf("%s: equal bundles tagged differently: %q vs %q", s.Name(), tagA, tagB)
		}
	}
}

func TestTagDiffersAcrossStrategies(t *testing.T) {
	payload := []byte("the same bytes")
	seen := map[string]string{}
	for _, s := range allStrategies() {
		tag := s.Sum(payload)
		for name, other := range seen {
			if other == tag {
				t.Errorf("strategies %s and %s produced identical tag %q", name, s.Name(), tag)
			}
		}
		seen[s.Name()] = tag
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{name: "", want: StrategyRolling32},
		{name: StrategyRolling32, want: StrategyRolling32},
		{name: StrategyCRC32, want: StrategyCRC32},
		{name: StrategyXXHash, want: StrategyXXHash},
		{name: "sha256", wantErr: true},
	}
	for _, tt := range tests {
		s, err := New(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Errorf("New(%q) expected error, got %v", tt.name, s)
			}
			continue
		}
		if err != nil {
			t.Errorf("New(%q) failed: %v", tt.name, err)
			continue
		}
		if s.Name() != tt.want {
			t.Errorf("New(%q).Name() = %q, want %q", tt.name, s.Name(), tt.want)
		}
	}
}
