package match

import (
	"testing"

	"github.com/Zuo-Peng/profile-verifier/internal/profile"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		name  string
		first string
		last  string
		url   string
		want  profile.NameMatch
	}{
		{"exact slug", "Jane", "Doe", "https://www.linkedin.com/in/jane-doe", profile.NameMatchYes},
		{"slug with suffix", "Jane", "Doe", "https://linkedin.com/in/jane-doe-4a1b2c/", profile.NameMatchYes},
		{"joined slug", "Jane", "Doe", "https://linkedin.com/in/janedoe", profile.NameMatchYes},
		{"no scheme", "Jane", "Doe", "linkedin.com/in/jane-doe", profile.NameMatchYes},
		{"accents folded", "José", "Núñez", "https://www.linkedin.com/in/jose-nunez", profile.NameMatchYes},
		{"case insensitive", "JANE", "doe", "https://linkedin.com/in/Jane-Doe", profile.NameMatchYes},
		{"pub path", "Jane", "Doe", "https://linkedin.com/pub/jane-doe/1/2/3", profile.NameMatchYes},
		{"different person", "Jane", "Doe", "https://linkedin.com/in/john-smith", profile.NameMatchNo},
		{"last name missing from slug", "Jane", "Doe", "https://linkedin.com/in/jane-roe", profile.NameMatchNo},
		{"empty first name", "", "Doe", "https://linkedin.com/in/jane-doe", profile.NameMatchNo},
		{"empty last name", "Jane", "  ", "https://linkedin.com/in/jane-doe", profile.NameMatchNo},
		{"no profile path", "Jane", "Doe", "https://linkedin.com/company/acme", profile.NameMatchNo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := profile.Record{FirstName: tt.first, LastName: tt.last, LinkedInURL: tt.url}
			if got := (Slug{}).MatchNames(r); got != tt.want {
				t.Errorf("MatchNames(%q %q, %q) = %q, want %q", tt.first, tt.last, tt.url, got, tt.want)
			}
		})
	}
}

func TestFixed(t *testing.T) {
	full := profile.Record{FirstName: "Jane", LastName: "Doe"}
	if got := Fixed(profile.NameMatchYes).MatchNames(full); got != profile.NameMatchYes {
		t.Errorf("Fixed(yes) = %q", got)
	}
	if got := Fixed(profile.NameMatchYes).MatchNames(profile.Record{FirstName: "Jane"}); got != profile.NameMatchNo {
		t.Errorf("Fixed(yes) with empty last name = %q, want no", got)
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"", "slug", "SLUG", "always-yes", "always-no"} {
		if _, ok := ByName(name); !ok {
			t.Errorf("ByName(%q) not found", name)
		}
	}
	if _, ok := ByName("random"); ok {
		t.Errorf("ByName(random) should not exist")
	}
}

func TestProfileSlug(t *testing.T) {
	tests := []struct{ in, want string }{
		{"https://www.linkedin.com/in/jane-doe", "jane-doe"},
		{"https://www.linkedin.com/in/jane%20doe/", "jane doe"},
		{"www.linkedin.com/in/jd?trk=public", "jd"},
		{"https://www.linkedin.com/feed/", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := profileSlug(tt.in); got != tt.want {
			t.Errorf("profileSlug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
