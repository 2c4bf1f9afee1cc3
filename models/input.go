package models

import (
	"encoding/json"
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"wanderlog/apperr"
)

// BlogInput is the accepted shape of a blog create request. Any slug sent by
// the caller is ignored; it is always derived from the title.
type BlogInput struct {
	Title          string          `json:"title"`
	Content        string          `json:"content"`
	Image          string          `json:"image"`
	Category       string          `json:"category"`
	AffiliateLinks []AffiliateLink `json:"affiliateLinks"`
}

func (in BlogInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	return asValidation(validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.By(sluggable)),
		validation.Field(&in.Content, validation.Required),
		validation.Field(&in.Image, imageRef(in.Image)...),
		validation.Field(&in.AffiliateLinks),
	))
}

// Blog builds the document to insert. ID and CreatedAt are left to the store.
func (in BlogInput) Blog() *Blog {
	links := in.AffiliateLinks
	if links == nil {
		links = []AffiliateLink{}
	}
	title := strings.TrimSpace(in.Title)
	return &Blog{
		Title:          title,
		Slug:           Slugify(title),
		Content:        in.Content,
		Image:          strings.TrimSpace(in.Image),
		Category:       strings.TrimSpace(in.Category),
		AffiliateLinks: links,
	}
}

func (l AffiliateLink) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Name, validation.Required),
		validation.Field(&l.URL, validation.Required, is.URL),
	)
}

// BlogPatch carries the mutable blog fields present in an update request.
// A nil field is left untouched; a present field replaces the stored value.
type BlogPatch struct {
	Title          *string          `json:"title"`
	Content        *string          `json:"content"`
	Image          *string          `json:"image"`
	Category       *string          `json:"category"`
	AffiliateLinks *[]AffiliateLink `json:"affiliateLinks"`
}

func (p BlogPatch) Validate() error {
	var errs validation.Errors = map[string]error{}
	if p.Title != nil {
		if strings.TrimSpace(*p.Title) == "" {
			errs["title"] = validation.ErrRequired
		} else if err := sluggable(*p.Title); err != nil {
			errs["title"] = err
		}
	}
	if p.Content != nil && strings.TrimSpace(*p.Content) == "" {
		errs["content"] = validation.ErrRequired
	}
	if p.Image != nil {
		if err := validation.Validate(*p.Image, imageRef(*p.Image)...); err != nil {
			errs["image"] = err
		}
	}
	if p.AffiliateLinks != nil {
		if err := validation.Validate(*p.AffiliateLinks); err != nil {
			errs["affiliateLinks"] = err
		}
	}
	return asValidation(errs.Filter())
}

// Slug returns the slug implied by the patch, if the title changes.
func (p BlogPatch) Slug() (string, bool) {
	if p.Title == nil {
		return "", false
	}
	return Slugify(*p.Title), true
}

// ApplyTo copies the present fields onto b. ID and CreatedAt are never touched.
func (p BlogPatch) ApplyTo(b *Blog) {
	if p.Title != nil {
		b.Title = strings.TrimSpace(*p.Title)
		b.Slug = Slugify(b.Title)
	}
	if p.Content != nil {
		b.Content = *p.Content
	}
	if p.Image != nil {
		b.Image = strings.TrimSpace(*p.Image)
	}
	if p.Category != nil {
		b.Category = strings.TrimSpace(*p.Category)
	}
	if p.AffiliateLinks != nil {
		b.AffiliateLinks = *p.AffiliateLinks
		if b.AffiliateLinks == nil {
			b.AffiliateLinks = []AffiliateLink{}
		}
	}
}

// StoryInput is the accepted shape of a story create request. RoutePoints is
// kept raw so that entries with non-numeric coordinates can be dropped
// instead of failing the whole body.
type StoryInput struct {
	Title       string          `json:"title"`
	Quote       string          `json:"quote"`
	Description string          `json:"description"`
	MapImage    string          `json:"mapImage"`
	PhotoImage  string          `json:"photoImage"`
	RoutePoints json.RawMessage `json:"routePoints"`
}

func (in StoryInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	return asValidation(validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required),
		validation.Field(&in.Description, validation.Required),
		validation.Field(&in.MapImage, imageRef(in.MapImage)...),
		validation.Field(&in.PhotoImage, imageRef(in.PhotoImage)...),
	))
}

func (in StoryInput) Story() *Story {
	return &Story{
		Title:       strings.TrimSpace(in.Title),
		Quote:       in.Quote,
		Description: in.Description,
		MapImage:    strings.TrimSpace(in.MapImage),
		PhotoImage:  strings.TrimSpace(in.PhotoImage),
		RoutePoints: ParseRoutePoints(in.RoutePoints),
	}
}

// StoryPatch carries the mutable story fields present in an update request.
type StoryPatch struct {
	Title       *string         `json:"title"`
	Quote       *string         `json:"quote"`
	Description *string         `json:"description"`
	MapImage    *string         `json:"mapImage"`
	PhotoImage  *string         `json:"photoImage"`
	RoutePoints json.RawMessage `json:"routePoints"`
}

func (p StoryPatch) Validate() error {
	var errs validation.Errors = map[string]error{}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		errs["title"] = validation.ErrRequired
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		errs["description"] = validation.ErrRequired
	}
	if p.MapImage != nil {
		if err := validation.Validate(*p.MapImage, imageRef(*p.MapImage)...); err != nil {
			errs["mapImage"] = err
		}
	}
	if p.PhotoImage != nil {
		if err := validation.Validate(*p.PhotoImage, imageRef(*p.PhotoImage)...); err != nil {
			errs["photoImage"] = err
		}
	}
	return asValidation(errs.Filter())
}

// Points returns the filtered route when the patch replaces it.
func (p StoryPatch) Points() ([]RoutePoint, bool) {
	if p.RoutePoints == nil {
		return nil, false
	}
	return ParseRoutePoints(p.RoutePoints), true
}

func (p StoryPatch) ApplyTo(s *Story) {
	if p.Title != nil {
		s.Title = strings.TrimSpace(*p.Title)
	}
	if p.Quote != nil {
		s.Quote = *p.Quote
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.MapImage != nil {
		s.MapImage = strings.TrimSpace(*p.MapImage)
	}
	if p.PhotoImage != nil {
		s.PhotoImage = strings.TrimSpace(*p.PhotoImage)
	}
	if points, ok := p.Points(); ok {
		s.RoutePoints = points
	}
}

var errNoSlug = errors.New("must contain at least one letter or digit from a-z or 0-9")

// sluggable rejects titles that would produce an empty slug, such as "!!!".
func sluggable(value interface{}) error {
	title, _ := value.(string)
	if strings.TrimSpace(title) != "" && Slugify(title) == "" {
		return errNoSlug
	}
	return nil
}

// imageRef accepts an empty value, a site-relative path or an absolute URL.
func imageRef(v string) []validation.Rule {
	if v == "" || strings.HasPrefix(v, "/") {
		return nil
	}
	return []validation.Rule{is.URL}
}

func asValidation(err error) error {
	if err == nil {
		return nil
	}
	return apperr.Invalid(err.Error())
}
