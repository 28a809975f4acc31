package parser

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/swezzy/sheetcms/config"
	"github.com/swezzy/sheetcms/content"
)

// Field names a canonical post attribute together with the header spellings
// the sheet has used for it over time, in order of preference.
type Field struct {
	Name    string
	Aliases []string
}

const (
	FieldID       = "id"
	FieldTitle    = "title"
	FieldExcerpt  = "excerpt"
	FieldTag      = "tag"
	FieldDate     = "date"
	FieldImg      = "img"
	FieldSpan     = "span"
	FieldContent  = "content"
	FieldFeatured = "featured"
	FieldTrending = "trending"
	FieldHero     = "hero"
	FieldCategory = "category"
)

// Fields is the alias table used by the normalizer.
var Fields = []Field{
	{FieldID, []string{"id", "ID", "Id"}},
	{FieldTitle, []string{"title", "Title"}},
	{FieldExcerpt, []string{"excerpt", "Excerpt", "description", "Description"}},
	{FieldTag, []string{"tag", "Tag", "category", "Category"}},
	{FieldDate, []string{"date", "Date"}},
	{FieldImg, []string{"img", "Img", "image", "Image"}},
	{FieldSpan, []string{"span", "Span", "layout", "Layout"}},
	{FieldContent, []string{"content", "Content", "body", "Body"}},
	{FieldFeatured, []string{"featured", "Featured"}},
	{FieldTrending, []string{"trending", "Trending"}},
	{FieldHero, []string{"hero", "Hero", "isHero"}},
	{FieldCategory, []string{"section", "Section", "page", "Page"}},
}

// FlagMatch selects how boolean columns are compared to "TRUE".
type FlagMatch int

const (
	FlagExact FlagMatch = iota
	FlagFold
)

const (
	DefaultTag   = "General"
	DefaultImage = "images/default.svg"
	DefaultSpan  = "span1x1"
	dateLayout   = "2006-01-02"
	flagTrue     = "TRUE"
)

type Normalizer struct {
	fields    []Field
	flagMatch FlagMatch
	tag       string
	image     string
	span      string
	clock     func() time.Time
	newID     func() string
}

type NormalizerOption func(*Normalizer)

func WithFlagMatch(m FlagMatch) NormalizerOption {
	return func(n *Normalizer) {
		n.flagMatch = m
	}
}

func WithDefaults(tag, image, span string) NormalizerOption {
	return func(n *Normalizer) {
		if tag != "" {
			n.tag = tag
		}
		if image != "" {
			n.image = image
		}
		if span != "" {
			n.span = span
		}
	}
}

func WithNormalizerClock(clock func() time.Time) NormalizerOption {
	return func(n *Normalizer) {
		n.clock = clock
	}
}

func WithIDGenerator(gen func() string) NormalizerOption {
	return func(n *Normalizer) {
		n.newID = gen
	}
}

func NewNormalizer(opts ...NormalizerOption) Normalizer {
	n := Normalizer{
		fields: Fields,
		tag:    DefaultTag,
		image:  DefaultImage,
		span:   DefaultSpan,
		clock:  time.Now,
		newID:  uuid.NewString,
	}

	for _, o := range opts {
		o(&n)
	}

	return n
}

// NormalizerFromConfig builds a normalizer out of the [parser] section.
func NormalizerFromConfig(cfg config.Parser) Normalizer {
	match := FlagExact
	if strings.EqualFold(cfg.FlagMatch, "fold") {
		match = FlagFold
	}

	return NewNormalizer(
		WithFlagMatch(match),
		WithDefaults(cfg.DefaultTag, cfg.DefaultImage, cfg.DefaultSpan),
	)
}

// Normalize maps a decoded row onto a post. It never fails: missing values
// receive their defaults, and a missing id is replaced by a random one.
func (n Normalizer) Normalize(row Row) content.Post {
	v := n.values(row)

	p := content.Post{
		ID:       v[FieldID],
		Title:    v[FieldTitle],
		Excerpt:  v[FieldExcerpt],
		Tag:      or(v[FieldTag], n.tag),
		Date:     or(v[FieldDate], n.clock().Format(dateLayout)),
		Img:      or(v[FieldImg], n.image),
		Span:     or(v[FieldSpan], n.span),
		Content:  v[FieldContent],
		Featured: n.flag(v[FieldFeatured]),
		Trending: n.flag(v[FieldTrending]),
		Hero:     n.flag(v[FieldHero]),
	}

	if p.ID == "" {
		p.ID = n.newID()
	}

	p.Category = or(v[FieldCategory], strings.ToLower(p.Tag))

	return p
}

// NormalizeAll normalizes the rows that carry an identity, skipping the rest.
func (n Normalizer) NormalizeAll(rows []Row) []content.Post {
	posts := make([]content.Post, 0, len(rows))
	for _, r := range rows {
		if !n.HasIdentity(r) {
			continue
		}
		posts = append(posts, n.Normalize(r))
	}

	return posts
}

// HasIdentity reports whether the row has both an id and a title under any
// of their accepted spellings.
func (n Normalizer) HasIdentity(row Row) bool {
	v := n.values(row)
	return v[FieldID] != "" && v[FieldTitle] != ""
}

func (n Normalizer) values(row Row) map[string]string {
	v := make(map[string]string, len(n.fields))
	for _, f := range n.fields {
		for _, a := range f.Aliases {
			if val, ok := row[a]; ok && val != "" {
				v[f.Name] = val
				break
			}
		}
	}

	return v
}

func (n Normalizer) flag(raw string) bool {
	if n.flagMatch == FlagFold {
		return strings.EqualFold(strings.TrimSpace(raw), flagTrue)
	}

	return raw == flagTrue
}

func or(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
