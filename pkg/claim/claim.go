// Package claim describes how to take ownership of an existing profile.
package claim

import (
	"fmt"
	"strings"
)

type Scenario string

const (
	Unclaimed Scenario = "UNCLAIMED"
	Owned     Scenario = "OWNED"
	Missing   Scenario = "MISSING"
)

type Step struct {
	Title  string `json:"title" yaml:"title"`
	Detail string `json:"detail" yaml:"detail"`
}

// Guide is the path for one scenario. CreateProfile marks scenarios that
// continue in the new profile wizard.
type Guide struct {
	Scenario      Scenario `json:"scenario" yaml:"scenario"`
	Choice        string   `json:"choice" yaml:"choice"`
	Hint          string   `json:"hint" yaml:"hint"`
	Title         string   `json:"title" yaml:"title"`
	Summary       string   `json:"summary" yaml:"summary"`
	Steps         []Step   `json:"steps,omitempty" yaml:"steps,omitempty"`
	CreateProfile bool     `json:"createProfile,omitempty" yaml:"create_profile,omitempty"`
}

// Help is shown under every scenario.
const Help = `Claiming can be tricky if the previous owner refuses access. Open the assistant and ask: "How do I trigger the 3-day rule for a service area business?"`

var guides = []Guide{
	{
		Scenario: Unclaimed,
		Choice:   "It's Unclaimed",
		Hint:     `I see an "Own this business?" link on the profile.`,
		Title:    "Great! It's Unclaimed.",
		Summary:  "This is the easiest scenario. It means no one else has verified the business yet.",
		Steps: []Step{
			{"Go to Google Maps", "Find your business listing."},
			{`Click "Own this business?"`, `It's usually located in the "About" section or near the suggest an edit button.`},
			{"Follow the Verification Steps", "Google will ask you to verify via Phone, Text, Email, or Video."},
		},
	},
	{
		Scenario: Owned,
		Choice:   "Someone Owns It",
		Hint:     `It says "This business is managed by..." another email.`,
		Title:    "It's Owned by Someone Else",
		Summary:  `You saw a message like "This profile is managed by x...@gmail.com". You can still get it back.`,
		Steps: []Step{
			{`Click "Request Access"`, `Fill out the form. Choose "Ownership" as the access level.`},
			{"Wait Exactly 3 Days", "The current owner has 3 days to respond. If they ignore it, which is common for lost accounts, Google will release the profile to you."},
			{"Check Your Email", "If rejected, you may need to appeal. If ignored, you'll get a link to claim it yourself."},
		},
	},
	{
		Scenario:      Missing,
		Choice:        "Can't Find It",
		Hint:          "My business doesn't show up on Maps at all.",
		Title:         "Business Not Found?",
		Summary:       "If searching for your business name yields no results on Google Maps, a profile likely doesn't exist yet. Create a new profile instead.",
		CreateProfile: true,
	},
}

// Guides returns every scenario in display order.
func Guides() []Guide {
	out := make([]Guide, len(guides))
	copy(out, guides)
	return out
}

// Lookup finds a scenario by name, case-insensitively.
func Lookup(name string) (Guide, error) {
	for _, g := range guides {
		if strings.EqualFold(strings.TrimSpace(name), string(g.Scenario)) {
			return g, nil
		}
	}
	return Guide{}, fmt.Errorf("unknown claim scenario %q (expected unclaimed, owned or missing)", name)
}
