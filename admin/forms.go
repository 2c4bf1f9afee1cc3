package admin

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"wanderlog/models"
)

// BlogForm is the edit buffer behind the blog form. Affiliate links are
// edited as one "name | url" pair per line.
type BlogForm struct {
	ID             string `form:"-"`
	Title          string `form:"title"`
	Content        string `form:"content"`
	Image          string `form:"image"`
	Category       string `form:"category"`
	AffiliateLinks string `form:"affiliateLinks"`
}

func blogFormFrom(b *models.Blog) BlogForm {
	lines := make([]string, 0, len(b.AffiliateLinks))
	for _, l := range b.AffiliateLinks {
		lines = append(lines, l.Name+" | "+l.URL)
	}
	return BlogForm{
		ID:             b.ID,
		Title:          b.Title,
		Content:        b.Content,
		Image:          b.Image,
		Category:       b.Category,
		AffiliateLinks: strings.Join(lines, "\n"),
	}
}

func (f BlogForm) links() []models.AffiliateLink {
	links := []models.AffiliateLink{}
	for _, line := range strings.Split(f.AffiliateLinks, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, link, found := strings.Cut(line, "|")
		if !found {
			// a bare URL names itself
			links = append(links, models.AffiliateLink{Name: line, URL: line})
			continue
		}
		links = append(links, models.AffiliateLink{
			Name: strings.TrimSpace(name),
			URL:  strings.TrimSpace(link),
		})
	}
	return links
}

func (f BlogForm) Input() models.BlogInput {
	return models.BlogInput{
		Title:          f.Title,
		Content:        f.Content,
		Image:          f.Image,
		Category:       f.Category,
		AffiliateLinks: f.links(),
	}
}

// Patch replaces every editable field, the form always submits all of them.
func (f BlogForm) Patch() models.BlogPatch {
	links := f.links()
	return models.BlogPatch{
		Title:          &f.Title,
		Content:        &f.Content,
		Image:          &f.Image,
		Category:       &f.Category,
		AffiliateLinks: &links,
	}
}

// StoryForm is the edit buffer behind the story form. Route points are
// edited as one "lat,lng,label" triple per line.
type StoryForm struct {
	ID          string `form:"-"`
	Title       string `form:"title"`
	Quote       string `form:"quote"`
	Description string `form:"description"`
	MapImage    string `form:"mapImage"`
	PhotoImage  string `form:"photoImage"`
	RoutePoints string `form:"routePoints"`
}

func storyFormFrom(s *models.Story) StoryForm {
	lines := make([]string, 0, len(s.RoutePoints))
	for _, p := range s.RoutePoints {
		line := fmt.Sprintf("%s,%s",
			strconv.FormatFloat(p.Lat, 'f', -1, 64),
			strconv.FormatFloat(p.Lng, 'f', -1, 64))
		if p.Label != "" {
			line += "," + p.Label
		}
		lines = append(lines, line)
	}
	return StoryForm{
		ID:          s.ID,
		Title:       s.Title,
		Quote:       s.Quote,
		Description: s.Description,
		MapImage:    s.MapImage,
		PhotoImage:  s.PhotoImage,
		RoutePoints: strings.Join(lines, "\n"),
	}
}

// routeJSON turns the textarea into the JSON array the story input expects.
// Lines whose coordinates do not parse are dropped.
func (f StoryForm) routeJSON() json.RawMessage {
	points := []models.RoutePoint{}
	for _, line := range strings.Split(f.RoutePoints, "\n") {
		parts := strings.SplitN(strings.TrimSpace(line), ",", 3)
		if len(parts) < 2 {
			continue
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			continue
		}
		lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			continue
		}
		p := models.RoutePoint{Lat: lat, Lng: lng}
		if len(parts) == 3 {
			p.Label = strings.TrimSpace(parts[2])
		}
		points = append(points, p)
	}
	raw, _ := json.Marshal(points)
	return raw
}

func (f StoryForm) Input() models.StoryInput {
	return models.StoryInput{
		Title:       f.Title,
		Quote:       f.Quote,
		Description: f.Description,
		MapImage:    f.MapImage,
		PhotoImage:  f.PhotoImage,
		RoutePoints: f.routeJSON(),
	}
}

func (f StoryForm) Patch() models.StoryPatch {
	return models.StoryPatch{
		Title:       &f.Title,
		Quote:       &f.Quote,
		Description: &f.Description,
		MapImage:    &f.MapImage,
		PhotoImage:  &f.PhotoImage,
		RoutePoints: f.routeJSON(),
	}
}
