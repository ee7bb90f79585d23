package domain

import "fmt"

// TokenMetadata is the JSON document served for one token, in the standard
// NFT metadata shape (name/description/image/attributes).
type TokenMetadata struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	ExternalURL string          `json:"external_url"`
	Attributes  []Attribute     `json:"attributes"`
	Properties  TokenProperties `json:"properties"`
}

type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

type TokenProperties struct {
	Category string    `json:"category"`
	Creators []Creator `json:"creators"`
}

type Creator struct {
	Address string `json:"address"`
	Share   int    `json:"share"`
}

type rarityTier struct {
	name     string
	min, max int64 // [min, max)
	elements []string
}

// Rarity distribution for the 100-piece collection. Tiers are keyed by
// token id range; the element cycles within a tier by token id.
var rarityTiers = []rarityTier{
	{"Mythic", 0, 5, []string{"Divine"}},
	{"Legendary", 5, 25, []string{"Ethereal", "Cosmic", "Phoenix"}},
	{"Epic", 25, 50, []string{"Mastery", "Power", "Inferno"}},
	{"Rare", 50, 70, []string{"Sapphire", "Gold", "Silver"}},
	{"Uncommon", 70, 85, []string{"Crystal", "Bronze", "Jade"}},
	{"Common", 85, 100, []string{"Stone", "Glass", "Iron"}},
}

func rarityAndElement(tokenID int64) (string, string) {
	for _, t := range rarityTiers {
		if tokenID >= t.min && tokenID < t.max {
			return t.name, t.elements[tokenID%int64(len(t.elements))]
		}
	}
	return "Common", "Stone"
}

// MetadataFor builds the deterministic metadata document for one token of a
// collection. The token id must be in [0, MaxSupply); callers validate.
func MetadataFor(c *Collection, tokenID int64) TokenMetadata {
	rarity, element := rarityAndElement(tokenID)
	return TokenMetadata{
		Name:        fmt.Sprintf("%s #%d", c.Name, tokenID),
		Description: fmt.Sprintf("%s #%d from the %d piece collection. Rarity: %s. Element: %s.", c.Name, tokenID, c.MaxSupply, rarity, element),
		Image:       c.BaseImageURI,
		ExternalURL: c.ExternalURL,
		Attributes: []Attribute{
			{TraitType: "Rarity", Value: rarity},
			{TraitType: "Element", Value: element},
			{TraitType: "Token ID", Value: fmt.Sprintf("%d", tokenID)},
			{TraitType: "Collection", Value: c.Name},
		},
		Properties: TokenProperties{
			Category: "utility",
			Creators: []Creator{
				{Address: c.CreatorAddress, Share: 100},
			},
		},
	}
}
