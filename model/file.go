package model

const (
	TypeFolder = "folder"
	TypeFile   = "file"
	TypeImage  = "image"
)

// File is a single entity owned by a user. Folders never carry a
// LocalPath; files and images get one exactly once, at creation.
// Only IsPublic may change afterwards.
type File struct {
	ID     string `gorm:"primaryKey" json:"id"`
	UserID string `gorm:"index;not null" json:"userId"`
	Name   string `gorm:"not null" json:"name"`
	Type   string `gorm:"not null" json:"type"`

	// Empty means the entity sits at the root
	ParentID string `gorm:"index" json:"parentId"`

	IsPublic bool `json:"isPublic"`

	// Where the decoded content lives on disk. Thumbnails are written
	// next to it as <LocalPath>_<width>
	LocalPath string `json:"-"`

	// Unix millisecond timestamp
	CreatedAt int64 `gorm:"not null;index" json:"createdAt"`
}
