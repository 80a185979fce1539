// Package site holds the brochure content: rooms, cafe, treks, galleries and
// contact links.
package site

import (
	_ "embed"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var embedded []byte

// Content is the whole brochure.
type Content struct {
	Name          string        `yaml:"name"`
	Tagline       string        `yaml:"tagline"`
	Location      string        `yaml:"location"`
	Welcome       Block         `yaml:"welcome"`
	HeroImage     string        `yaml:"hero_image"`
	Links         Links         `yaml:"links"`
	Accommodation Accommodation `yaml:"accommodations"`
	Cafe          Cafe          `yaml:"cafe"`
	ThingsToDo    ThingsToDo    `yaml:"things_to_do"`
	Reviews       struct {
		Intro string `yaml:"intro"`
	} `yaml:"reviews"`
	Views   Gallery `yaml:"views"`
	Contact Contact `yaml:"contact"`
}

// Block is a titled paragraph.
type Block struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// Links are the outbound destinations.
type Links struct {
	Booking   string `yaml:"booking"`
	WhatsApp  string `yaml:"whatsapp"`
	Email     string `yaml:"email"`
	Phone     string `yaml:"phone"`
	Maps      string `yaml:"maps"`
	Instagram string `yaml:"instagram"`
	Facebook  string `yaml:"facebook"`
	YouTube   string `yaml:"youtube"`
}

// Accommodation lists the rooms and the villa.
type Accommodation struct {
	Intro string `yaml:"intro"`
	Rooms []Room `yaml:"rooms"`
}

// Room is one bookable stay. Subtitle lines are newline separated.
type Room struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Subtitle    string   `yaml:"subtitle"`
	Description string   `yaml:"description"`
	MainImage   string   `yaml:"main_image"`
	Images      []string `yaml:"images"`
}

// Cafe is the ADHIKARA cafe section.
type Cafe struct {
	Title      string   `yaml:"title"`
	Paragraphs []string `yaml:"paragraphs"`
	Features   []Block  `yaml:"features"`
	Images     []string `yaml:"images"`
}

// Feature cards share the Block shape but use description as the body key.
func (b *Block) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Title       string `yaml:"title"`
		Body        string `yaml:"body"`
		Description string `yaml:"description"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	b.Title = raw.Title
	b.Body = raw.Body
	if b.Body == "" {
		b.Body = raw.Description
	}
	return nil
}

// ThingsToDo lists treks and in-house activities.
type ThingsToDo struct {
	Title      string  `yaml:"title"`
	Intro      string  `yaml:"intro"`
	Treks      []Trek  `yaml:"treks"`
	Activities []Block `yaml:"activities"`
}

// Trek is a hike reachable from the property.
type Trek struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Subtitle    string `yaml:"subtitle"`
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
}

// Gallery is an ordered list of image paths.
type Gallery struct {
	Images []string `yaml:"images"`
}

// Contact is the contact section copy.
type Contact struct {
	Intro      string   `yaml:"intro"`
	Address    string   `yaml:"address"`
	Directions []string `yaml:"directions"`
}

// Load decodes the content at path, or the embedded content when path is empty.
func Load(path string) (*Content, error) {
	data := embedded
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read content: %w", err)
		}
	}
	return Parse(data)
}

// Parse decodes content YAML and checks that every gallery has images.
func Parse(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse content: %w", err)
	}
	for i := range c.Accommodation.Rooms {
		room := &c.Accommodation.Rooms[i]
		if len(room.Images) == 0 {
			return nil, fmt.Errorf("room %q has no images", room.ID)
		}
		if room.MainImage == "" {
			room.MainImage = room.Images[0]
		}
	}
	return &c, nil
}

// AllAccommodationImages flattens every room's images in room order.
func (c *Content) AllAccommodationImages() []string {
	var out []string
	for _, room := range c.Accommodation.Rooms {
		out = append(out, room.Images...)
	}
	return out
}

// Enquiry is the contact form.
type Enquiry struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Message   string
}

// Name joins first and last name.
func (e Enquiry) Name() string {
	return strings.TrimSpace(strings.TrimSpace(e.FirstName) + " " + strings.TrimSpace(e.LastName))
}

var (
	// ErrMissingName is returned when both name fields are blank.
	ErrMissingName = errors.New("please enter your name")
	// ErrMissingReply is returned when neither email nor phone is given.
	ErrMissingReply = errors.New("please enter an email or phone number")
	// ErrMissingMessage is returned for an empty message.
	ErrMissingMessage = errors.New("please enter a message")
)

// Validate checks the fields a WhatsApp enquiry needs.
func (e Enquiry) Validate() error {
	if e.Name() == "" {
		return ErrMissingName
	}
	email := strings.TrimSpace(e.Email)
	if email == "" && strings.TrimSpace(e.Phone) == "" {
		return ErrMissingReply
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return fmt.Errorf("invalid email %q", email)
		}
	}
	if strings.TrimSpace(e.Message) == "" {
		return ErrMissingMessage
	}
	return nil
}

// WhatsAppURL builds a wa.me deep link carrying the enquiry as the message.
func WhatsAppURL(phone string, e Enquiry) string {
	var b strings.Builder
	b.WriteString("Hello! I'm " + e.Name())
	if email := strings.TrimSpace(e.Email); email != "" {
		b.WriteString("\nEmail: " + email)
	}
	if tel := strings.TrimSpace(e.Phone); tel != "" {
		b.WriteString("\nPhone: " + tel)
	}
	b.WriteString("\nMessage: " + strings.TrimSpace(e.Message))
	return "https://wa.me/" + digits(phone) + "?text=" + encodeComponent(b.String())
}

// componentUnescaper undoes the QueryEscape cases that encodeURIComponent
// leaves alone.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeComponent escapes like a browser's encodeURIComponent.
func encodeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}

func digits(phone string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
}
