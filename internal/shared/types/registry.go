package types

// RegistryStats contains capsule registry statistics
type RegistryStats struct {
	TotalCapsules int              `json:"total_capsules"`
	Categories    map[string]int   `json:"categories"`
	Platforms     map[Platform]int `json:"platforms"`
	Version       uint64           `json:"version"`
}
