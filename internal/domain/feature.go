package domain

// Feature is a usage-ledger partition. Each feature has its own system
// prompt and its own daily counter row, but the daily cap is enforced
// across all of them together.
type Feature string

const (
	FeatureChat   Feature = "chat"
	FeatureTalk   Feature = "talk"
	FeatureListen Feature = "listen"
	FeatureRead   Feature = "read"
)

// IsValid reports whether f is a known feature.
func (f Feature) IsValid() bool {
	switch f {
	case FeatureChat, FeatureTalk, FeatureListen, FeatureRead:
		return true
	}
	return false
}

// Personality selects the tone of the system prompt for chat-like features.
// It arrives on the x-buddy-personality request header.
type Personality string

const (
	PersonalityFormal   Personality = "formal"
	PersonalityFriendly Personality = "friendly"
	PersonalityFun      Personality = "fun"
)

// ParsePersonality maps a header value to a Personality, defaulting to
// friendly for anything unrecognized or empty.
func ParsePersonality(s string) Personality {
	switch Personality(s) {
	case PersonalityFormal:
		return PersonalityFormal
	case PersonalityFun:
		return PersonalityFun
	}
	return PersonalityFriendly
}
