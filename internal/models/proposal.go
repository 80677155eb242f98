package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Species is the coarse authorship category attached to users and their contributions
type Species string

const (
	SpeciesHuman   Species = "human"
	SpeciesCompany Species = "company"
	SpeciesAI      Species = "ai"
)

// AllSpecies lists every species in display order
var AllSpecies = []Species{SpeciesHuman, SpeciesCompany, SpeciesAI}

// ParseSpecies parses a species tag case-insensitively
func ParseSpecies(s string) (Species, bool) {
	switch Species(strings.ToLower(strings.TrimSpace(s))) {
	case SpeciesHuman:
		return SpeciesHuman, true
	case SpeciesCompany:
		return SpeciesCompany, true
	case SpeciesAI:
		return SpeciesAI, true
	}
	return "", false
}

// Valid reports whether s is one of the known species
func (s Species) Valid() bool {
	_, ok := ParseSpecies(string(s))
	return ok
}

// Identity is the denormalized author or voter attached to writes.
// It is never authenticated.
type Identity struct {
	Name      string  `json:"name"`
	Species   Species `json:"species" gorm:"index"`
	AvatarURL string  `json:"avatar_url,omitempty"`
}

// Complete reports whether both name and species are present
func (i Identity) Complete() bool {
	return strings.TrimSpace(i.Name) != "" && strings.TrimSpace(string(i.Species)) != ""
}

// Vote is a single entry in a proposal's likes or dislikes
type Vote struct {
	Voter   string  `json:"voter"`
	Species Species `json:"type"`
}

// Comment is stored inline on its proposal
type Comment struct {
	User    string  `json:"user"`
	UserImg string  `json:"user_img,omitempty"`
	Species Species `json:"species,omitempty"`
	Comment string  `json:"comment"`
}

// MediaKind names one of the media slots on a proposal
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
	MediaLink  MediaKind = "link"
	MediaFile  MediaKind = "file"
)

// ParseMediaKind parses a media kind case-insensitively
func ParseMediaKind(s string) (MediaKind, bool) {
	switch MediaKind(strings.ToLower(strings.TrimSpace(s))) {
	case MediaImage:
		return MediaImage, true
	case MediaVideo:
		return MediaVideo, true
	case MediaLink:
		return MediaLink, true
	case MediaFile:
		return MediaFile, true
	}
	return "", false
}

// Uploadable reports whether the kind accepts a binary upload rather than a URL
func (k MediaKind) Uploadable() bool {
	return k == MediaImage || k == MediaFile
}

// Media holds the durable URLs of a proposal's attachments
type Media struct {
	Image string `json:"image,omitempty"`
	Video string `json:"video,omitempty"`
	Link  string `json:"link,omitempty"`
	File  string `json:"file,omitempty"`
}

// Empty reports whether no media slot is populated
func (m Media) Empty() bool {
	return m.Image == "" && m.Video == "" && m.Link == "" && m.File == ""
}

// With returns a copy of m with the given slot set
func (m Media) With(kind MediaKind, url string) Media {
	switch kind {
	case MediaImage:
		m.Image = url
	case MediaVideo:
		m.Video = url
	case MediaLink:
		m.Link = url
	case MediaFile:
		m.File = url
	}
	return m
}

// Proposal is a single feed item
type Proposal struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Body      string    `gorm:"type:text" json:"body,omitempty"`
	Author    Identity  `gorm:"embedded;embeddedPrefix:author_" json:"author"`
	Media     Media     `gorm:"type:text;serializer:json" json:"media"`
	Likes     []Vote    `gorm:"type:text;serializer:json" json:"likes"`
	Dislikes  []Vote    `gorm:"type:text;serializer:json" json:"dislikes"`
	Comments  []Comment `gorm:"type:text;serializer:json" json:"comments"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName pins the table name used by the hosted backend
func (Proposal) TableName() string {
	return "proposals"
}

// BeforeCreate assigns a time-ordered ID
func (p *Proposal) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		p.ID = id.String()
	}
	return nil
}

// BeforeSave stores empty collections as [] rather than null
func (p *Proposal) BeforeSave(tx *gorm.DB) error {
	if p.Likes == nil {
		p.Likes = []Vote{}
	}
	if p.Dislikes == nil {
		p.Dislikes = []Vote{}
	}
	if p.Comments == nil {
		p.Comments = []Comment{}
	}
	return nil
}

// LikeCount is derived from the likes collection
func (p Proposal) LikeCount() int {
	return len(p.Likes)
}

// DislikeCount is derived from the dislikes collection
func (p Proposal) DislikeCount() int {
	return len(p.Dislikes)
}

// Engagement is the number of likes plus comments
func (p Proposal) Engagement() int {
	return len(p.Likes) + len(p.Comments)
}

// Clone returns a deep copy of p
func (p Proposal) Clone() Proposal {
	c := p
	c.Likes = cloneSlice(p.Likes)
	c.Dislikes = cloneSlice(p.Dislikes)
	c.Comments = cloneSlice(p.Comments)
	return c
}

// WithComment returns a copy of p with c appended
func (p Proposal) WithComment(c Comment) Proposal {
	out := p.Clone()
	out.Comments = append(out.Comments, c)
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

// ProposalDraft is the payload for creating a proposal once media URLs are known
type ProposalDraft struct {
	Title  string   `json:"title"`
	Body   string   `json:"body,omitempty"`
	Author Identity `json:"author"`
	Media  Media    `json:"media"`
}

// Proposal builds the record to insert for d
func (d ProposalDraft) Proposal() Proposal {
	return Proposal{
		Title:    strings.TrimSpace(d.Title),
		Body:     strings.TrimSpace(d.Body),
		Author:   d.Author,
		Media:    d.Media,
		Likes:    []Vote{},
		Dislikes: []Vote{},
		Comments: []Comment{},
	}
}
