package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"sharebnb/internal/auth"
	"sharebnb/internal/config"
	"sharebnb/internal/db"
	"sharebnb/internal/model"
)

const dateLayout = "2006-01-02"

func main() {
	dir := flag.String("dir", "generator", "directory holding users.csv, listings.csv, bookings.csv and messages.csv")
	reset := flag.Bool("reset", false, "drop all tables before seeding")
	flag.Parse()

	log.Println("Starting seed script...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	gormDB, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if *reset || cfg.ResetDB {
		if err := gormDB.Migrator().DropTable(&model.Message{}, &model.Booking{}, &model.Listing{}, &model.Account{}); err != nil {
			log.Printf("Warning: failed to drop tables: %v", err)
		}
		log.Println("Tables dropped")
	}

	if err := gormDB.AutoMigrate(&model.Account{}, &model.Listing{}, &model.Booking{}, &model.Message{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	hasher := auth.NewHasher(cfg.BcryptCost)
	seeder := &seeder{db: gormDB, dir: *dir}

	err = gormDB.Transaction(func(tx *gorm.DB) error {
		seeder.db = tx
		steps := []struct {
			file string
			load func([]map[string]string) (int, error)
		}{
			{"users.csv", func(rows []map[string]string) (int, error) { return seeder.users(rows, hasher) }},
			{"listings.csv", seeder.listings},
			{"bookings.csv", seeder.bookings},
			{"messages.csv", seeder.messages},
		}
		for _, step := range steps {
			rows, err := seeder.read(step.file)
			if errors.Is(err, fs.ErrNotExist) {
				log.Printf("Skipping %s: file not found", step.file)
				continue
			}
			if err != nil {
				return err
			}
			n, err := step.load(rows)
			if err != nil {
				return fmt.Errorf("%s: %w", step.file, err)
			}
			log.Printf("  - %s: %d rows", step.file, n)
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Seed failed: %v", err)
	}

	// explicit ids in the CSVs leave Postgres serial sequences behind
	if db.IsPostgres(cfg.DatabaseURL) {
		if err := resetSequences(gormDB, &model.Account{}, &model.Listing{}, &model.Booking{}, &model.Message{}); err != nil {
			log.Fatalf("Failed to reset id sequences: %v", err)
		}
		log.Println("Id sequences reset")
	}

	log.Println("Seed completed successfully!")
}

// resetSequences moves each table's id sequence past its highest id.
func resetSequences(gormDB *gorm.DB, models ...interface{}) error {
	for _, m := range models {
		stmt := &gorm.Statement{DB: gormDB}
		if err := stmt.Parse(m); err != nil {
			return fmt.Errorf("parse %T: %w", m, err)
		}
		if err := gormDB.Exec(sequenceResetSQL(stmt.Schema.Table)).Error; err != nil {
			return fmt.Errorf("reset %s sequence: %w", stmt.Schema.Table, err)
		}
	}
	return nil
}

// sequenceResetSQL sets the sequence so the next nextval is MAX(id)+1, or 1 on an empty table.
func sequenceResetSQL(table string) string {
	return fmt.Sprintf(
		"SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE(MAX(id), 1), MAX(id) IS NOT NULL) FROM %[1]s",
		table,
	)
}

type seeder struct {
	db  *gorm.DB
	dir string
}

func (s *seeder) read(name string) ([]map[string]string, error) {
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readRecords(f)
}

// readRecords maps every CSV row onto the header of the first row.
func readRecords(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+2, err)
		}
		row := make(map[string]string, len(header))
		for i, column := range header {
			row[column] = record[i]
		}
		rows = append(rows, row)
	}
}

func (s *seeder) users(rows []map[string]string, hasher *auth.Hasher) (int, error) {
	for i, row := range rows {
		account, err := toAccount(row, hasher)
		if err != nil {
			return i, err
		}
		if err := s.db.Create(account).Error; err != nil {
			return i, fmt.Errorf("create user %q: %w", account.Username, err)
		}
	}
	return len(rows), nil
}

func (s *seeder) listings(rows []map[string]string) (int, error) {
	for i, row := range rows {
		listing, err := toListing(row)
		if err != nil {
			return i, err
		}
		if err := s.db.Create(listing).Error; err != nil {
			return i, fmt.Errorf("create listing: %w", err)
		}
	}
	return len(rows), nil
}

func (s *seeder) bookings(rows []map[string]string) (int, error) {
	for i, row := range rows {
		booking, err := toBooking(row)
		if err != nil {
			return i, err
		}
		if err := s.db.Create(booking).Error; err != nil {
			return i, fmt.Errorf("create booking: %w", err)
		}
	}
	return len(rows), nil
}

func (s *seeder) messages(rows []map[string]string) (int, error) {
	for i, row := range rows {
		message, err := toMessage(row)
		if err != nil {
			return i, err
		}
		if err := s.db.Create(message).Error; err != nil {
			return i, fmt.Errorf("create message: %w", err)
		}
	}
	return len(rows), nil
}

// toAccount hashes the plaintext password column before it is stored.
func toAccount(row map[string]string, hasher *auth.Hasher) (*model.Account, error) {
	id, err := optionalID(row, "id")
	if err != nil {
		return nil, err
	}
	digest, err := hasher.Hash(row["password"])
	if err != nil {
		return nil, fmt.Errorf("hash password for %q: %w", row["username"], err)
	}
	return &model.Account{
		ID:           id,
		Username:     row["username"],
		Email:        row["email"],
		PasswordHash: digest,
		FirstName:    row["first_name"],
		LastName:     row["last_name"],
	}, nil
}

func toListing(row map[string]string) (*model.Listing, error) {
	id, err := optionalID(row, "id")
	if err != nil {
		return nil, err
	}
	ownerID, err := requiredID(row, "user_id")
	if err != nil {
		return nil, err
	}
	price, err := decimal.NewFromString(row["price"])
	if err != nil {
		return nil, fmt.Errorf("price %q: %w", row["price"], err)
	}
	return &model.Listing{
		ID:      id,
		OwnerID: ownerID,
		Photos:  row["photos"],
		Price:   price.Round(2),
		Details: row["details"],
	}, nil
}

func toBooking(row map[string]string) (*model.Booking, error) {
	userID, err := requiredID(row, "user_id")
	if err != nil {
		return nil, err
	}
	listingID, err := requiredID(row, "listing_id")
	if err != nil {
		return nil, err
	}
	checkin, err := time.Parse(dateLayout, row["checkin_date"])
	if err != nil {
		return nil, fmt.Errorf("checkin_date %q: %w", row["checkin_date"], err)
	}
	checkout, err := time.Parse(dateLayout, row["checkout_date"])
	if err != nil {
		return nil, fmt.Errorf("checkout_date %q: %w", row["checkout_date"], err)
	}
	if !checkout.After(checkin) {
		return nil, fmt.Errorf("checkout_date %s is not after checkin_date %s", row["checkout_date"], row["checkin_date"])
	}
	return &model.Booking{
		UserID:       userID,
		ListingID:    listingID,
		CheckinDate:  checkin,
		CheckoutDate: checkout,
	}, nil
}

func toMessage(row map[string]string) (*model.Message, error) {
	toID, err := requiredID(row, "to_user_id")
	if err != nil {
		return nil, err
	}
	fromID, err := requiredID(row, "from_user_id")
	if err != nil {
		return nil, err
	}
	if len([]rune(row["text"])) > model.MaxMessageLength {
		return nil, fmt.Errorf("text longer than %d characters", model.MaxMessageLength)
	}
	message := &model.Message{ToUserID: toID, FromUserID: fromID, Text: row["text"]}
	if ts := row["timestamp"]; ts != "" {
		parsed, err := parseTimestamp(ts)
		if err != nil {
			return nil, err
		}
		message.Timestamp = parsed
	}
	return message, nil
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05.999999", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("timestamp %q: unsupported format", value)
}

func optionalID(row map[string]string, column string) (uint, error) {
	if row[column] == "" {
		return 0, nil
	}
	return requiredID(row, column)
}

func requiredID(row map[string]string, column string) (uint, error) {
	id, err := strconv.ParseUint(row[column], 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%s %q is not a valid id", column, row[column])
	}
	return uint(id), nil
}
