package domain

// CountEntry is a label with the number of documents carrying it.
type CountEntry struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Stats summarises the current corpus for a dashboard.
type Stats struct {
	// TotalDocuments is the number of stored documents.
	TotalDocuments int `json:"totalDocs"`

	// ByCategory counts documents per category, largest first.
	ByCategory []CountEntry `json:"byCategory"`

	// ByDepartment counts documents per department, largest first.
	ByDepartment []CountEntry `json:"byDepartment"`

	// Recent lists the most recent uploads, newest first.
	Recent []Document `json:"recentUploads"`
}
