package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"volunteer-rota-backend/internal/config"
	"volunteer-rota-backend/internal/database"
	"volunteer-rota-backend/internal/database/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Seed data structures matching the YAML files under scripts/data. Contacts
// reference spouses by email, events list their occurrences inline, and rotas
// reference events by title so the files stay readable.

type ContactData struct {
	FirstName   string `yaml:"first_name"`
	LastName    string `yaml:"last_name"`
	Email       string `yaml:"email"`
	PhoneNumber string `yaml:"phone_number,omitempty"`
	SpouseEmail string `yaml:"spouse_email,omitempty"`
	IsActive    *bool  `yaml:"is_active,omitempty"`
}

type OccurrenceData struct {
	StartsAt  time.Time `yaml:"starts_at"`
	EndsAt    time.Time `yaml:"ends_at,omitempty"`
	Location  string    `yaml:"location,omitempty"`
	MaxSpaces *int      `yaml:"max_spaces,omitempty"`
}

type EventData struct {
	Title          string           `yaml:"title"`
	Description    string           `yaml:"description,omitempty"`
	Location       string           `yaml:"location,omitempty"`
	RecurrenceRule string           `yaml:"recurrence_rule,omitempty"`
	Visibility     string           `yaml:"visibility,omitempty"`
	Occurrences    []OccurrenceData `yaml:"occurrences,omitempty"`
}

type RotaData struct {
	EventTitle string `yaml:"event_title"`
	Role       string `yaml:"role"`
	Capacity   int    `yaml:"capacity"`
	Visibility string `yaml:"visibility,omitempty"`
	OwnerEmail string `yaml:"owner_email,omitempty"`
}

type ContactsFile struct {
	Contacts []ContactData `yaml:"contacts"`
}

type EventsFile struct {
	Events []EventData `yaml:"events"`
}

type RotasFile struct {
	Rotas []RotaData `yaml:"rotas"`
}

func main() {
	log.Println("Loading initial data from YAML files...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database with retry (for dockerized Postgres startup)
	db, err := connectWithRetry(cfg.DatabaseURL, 60, time.Second)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := loadDataFromYAMLFiles(db, "scripts/data"); err != nil {
		log.Fatalf("Failed to load data from YAML files: %v", err)
	}

	log.Println("Initial data loaded successfully")
}

// connectWithRetry attempts to initialize the DB with retries to wait for Postgres readiness.
func connectWithRetry(dsn string, maxAttempts int, delay time.Duration) (*gorm.DB, error) {
	opts := &database.Options{
		LogLevel: logger.Silent,
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		db, err := database.Initialize(dsn, opts)
		if err == nil {
			return db, nil
		}
		if attempt%10 == 0 || attempt == maxAttempts {
			log.Printf("Database not ready (%d/%d): %v", attempt, maxAttempts, err)
		}
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("database not ready after %d attempts", maxAttempts)
}

func loadDataFromYAMLFiles(db *gorm.DB, dataDir string) error {
	contacts, err := loadContacts(dataDir)
	if err != nil {
		return fmt.Errorf("failed to load contacts: %w", err)
	}

	events, err := loadEvents(dataDir)
	if err != nil {
		return fmt.Errorf("failed to load events: %w", err)
	}

	rotas, err := loadRotas(dataDir)
	if err != nil {
		return fmt.Errorf("failed to load rotas: %w", err)
	}

	contactsByEmail, err := seedContacts(db, contacts)
	if err != nil {
		return err
	}

	eventsByTitle, err := seedEvents(db, events)
	if err != nil {
		return err
	}

	return seedRotas(db, rotas, eventsByTitle, contactsByEmail)
}

func loadContacts(dataDir string) ([]ContactData, error) {
	var file ContactsFile
	if err := readYAML(filepath.Join(dataDir, "contacts.yaml"), &file); err != nil {
		return nil, err
	}
	return file.Contacts, nil
}

func loadEvents(dataDir string) ([]EventData, error) {
	var file EventsFile
	if err := readYAML(filepath.Join(dataDir, "events.yaml"), &file); err != nil {
		return nil, err
	}
	return file.Events, nil
}

func loadRotas(dataDir string) ([]RotaData, error) {
	var file RotasFile
	if err := readYAML(filepath.Join(dataDir, "rotas.yaml"), &file); err != nil {
		return nil, err
	}
	return file.Rotas, nil
}

func readYAML(path string, target interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Skipping %s: file not found", path)
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, target)
}

// seedContacts upserts contacts by email, then links spouses in a second
// pass once every row exists.
func seedContacts(db *gorm.DB, contacts []ContactData) (map[string]*models.Contact, error) {
	byEmail := make(map[string]*models.Contact, len(contacts))

	for _, data := range contacts {
		contact := &models.Contact{}
		err := db.Where("email = ?", data.Email).First(contact).Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("lookup contact %s: %w", data.Email, err)
		}

		contact.FirstName = data.FirstName
		contact.LastName = data.LastName
		contact.Email = data.Email
		contact.PhoneNumber = data.PhoneNumber
		contact.IsActive = data.IsActive == nil || *data.IsActive

		if err := db.Save(contact).Error; err != nil {
			return nil, fmt.Errorf("save contact %s: %w", data.Email, err)
		}
		byEmail[data.Email] = contact
	}

	for _, data := range contacts {
		if data.SpouseEmail == "" {
			continue
		}
		contact := byEmail[data.Email]
		spouse, ok := byEmail[data.SpouseEmail]
		if !ok {
			log.Printf("Skipping spouse link for %s: %s not in seed data", data.Email, data.SpouseEmail)
			continue
		}
		contact.SpouseID = &spouse.ID
		if err := db.Save(contact).Error; err != nil {
			return nil, fmt.Errorf("link spouse for %s: %w", data.Email, err)
		}
	}

	log.Printf("Seeded %d contacts", len(contacts))
	return byEmail, nil
}

// seedEvents upserts events by title and recreates their listed occurrences.
func seedEvents(db *gorm.DB, events []EventData) (map[string]*models.Event, error) {
	byTitle := make(map[string]*models.Event, len(events))

	for _, data := range events {
		event := &models.Event{}
		err := db.Where("title = ?", data.Title).First(event).Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("lookup event %q: %w", data.Title, err)
		}

		event.Title = data.Title
		event.Description = data.Description
		event.Location = data.Location
		event.RecurrenceRule = data.RecurrenceRule
		event.Visibility = models.VisibilityPrivate
		if data.Visibility == string(models.VisibilityPublic) {
			event.Visibility = models.VisibilityPublic
		}

		if err := db.Save(event).Error; err != nil {
			return nil, fmt.Errorf("save event %q: %w", data.Title, err)
		}
		byTitle[data.Title] = event

		for _, occ := range data.Occurrences {
			endsAt := occ.EndsAt
			if endsAt.IsZero() {
				endsAt = occ.StartsAt.Add(time.Hour)
			}
			occurrence := &models.Occurrence{}
			err := db.Where("event_id = ? AND starts_at = ?", event.ID, occ.StartsAt).First(occurrence).Error
			if err != nil && err != gorm.ErrRecordNotFound {
				return nil, fmt.Errorf("lookup occurrence for %q: %w", data.Title, err)
			}
			occurrence.EventID = event.ID
			occurrence.StartsAt = occ.StartsAt
			occurrence.EndsAt = endsAt
			occurrence.Location = occ.Location
			occurrence.MaxSpaces = occ.MaxSpaces
			if err := db.Save(occurrence).Error; err != nil {
				return nil, fmt.Errorf("save occurrence for %q: %w", data.Title, err)
			}
		}
	}

	log.Printf("Seeded %d events", len(events))
	return byTitle, nil
}

// seedRotas upserts template rotas by event and role. Share tokens are only
// issued for new rows so existing public links keep working across reseeds.
func seedRotas(db *gorm.DB, rotas []RotaData, eventsByTitle map[string]*models.Event, contactsByEmail map[string]*models.Contact) error {
	seeded := 0
	for _, data := range rotas {
		event, ok := eventsByTitle[data.EventTitle]
		if !ok {
			log.Printf("Skipping rota %q: event %q not in seed data", data.Role, data.EventTitle)
			continue
		}

		rota := &models.Rota{}
		err := db.Where("event_id = ? AND role = ?", event.ID, data.Role).First(rota).Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return fmt.Errorf("lookup rota %q: %w", data.Role, err)
		}

		rota.EventID = event.ID
		rota.Role = data.Role
		rota.Capacity = data.Capacity
		if rota.Capacity < 1 {
			rota.Capacity = 1
		}
		if rota.Assignees == nil {
			rota.Assignees = models.AssigneeList{}
		}
		rota.Visibility = models.VisibilityPrivate
		if data.Visibility == string(models.VisibilityPublic) {
			rota.Visibility = models.VisibilityPublic
		}
		if data.OwnerEmail != "" {
			if owner, ok := contactsByEmail[data.OwnerEmail]; ok {
				rota.OwnerContactID = &owner.ID
			}
		}
		if rota.ShareToken == "" {
			rota.ShareToken = newSeedToken()
		}

		if err := db.Save(rota).Error; err != nil {
			return fmt.Errorf("save rota %q: %w", data.Role, err)
		}
		seeded++
	}

	log.Printf("Seeded %d rotas", seeded)
	return nil
}

// newSeedToken issues a share token in the same shape the API uses.
func newSeedToken() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		log.Fatalf("generate share token: %v", err)
	}
	return hex.EncodeToString(buf)
}
