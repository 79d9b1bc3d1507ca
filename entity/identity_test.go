package entity

import (
	"testing"

	"github.com/zero-day-ai/nexus/platform"
)

func TestColor(t *testing.T) {
	oaev, err := platform.GetDefinition(platform.TypeOpenAEV)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		record Record
		want   string
	}{
		{
			name:   "prefixed type uses owning platform color",
			record: Record{"type": "oaev-Team"},
			want:   oaev.PrimaryColor,
		},
		{
			name:   "bare type uses default platform color",
			record: Record{"type": "Malware"},
			want:   platform.Default().PrimaryColor,
		},
		{
			name:   "typeless record uses default platform color",
			record: Record{},
			want:   platform.Default().PrimaryColor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Color(tt.record); got != tt.want {
				t.Errorf("Color() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestURL(t *testing.T) {
	r := Record{"type": "Malware", "id": "m1"}
	want := "https://x.io/dashboard/arsenal/malwares/m1"
	if got := URL("https://x.io/", r); got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}
}

func TestDisplayLabel(t *testing.T) {
	r := Record{"type": "oaev-attack-pattern"}
	if got, want := DisplayLabel(r), "OpenAEV Attack Pattern"; got != want {
		t.Errorf("DisplayLabel() = %q, want %q", got, want)
	}
}
