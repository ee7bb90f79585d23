package domain

// Collection describes one bounded, sequentially-numbered NFT collection.
// Token ids are assigned 0..MaxSupply-1 in minting order, so the on-chain
// totalSupply counter is also the next free token id.
type Collection struct {
	Name            string `json:"name"`
	ContractAddress string `json:"contractAddress"`
	CreatorAddress  string `json:"creatorAddress"`
	MaxSupply       int64  `json:"maxSupply"`
	BaseImageURI    string `json:"baseImageUri"`
	ExternalURL     string `json:"externalUrl"`
}

// Registry is the set of collections this service tracks, keyed by name.
type Registry map[string]*Collection

// Lookup returns the collection for name, or nil if unregistered.
func (r Registry) Lookup(name string) *Collection {
	return r[name]
}

// List returns the registered collections in no particular order.
func (r Registry) List() []*Collection {
	out := make([]*Collection, 0, len(r))
	for _, c := range r {
		out = append(out, c)
	}
	return out
}
