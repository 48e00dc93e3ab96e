package config

import (
	"reflect"
	"testing"
	"time"
)

func TestGetStringSliceEnv(t *testing.T) {
	t.Setenv("TEST_ORIGINS", "http://a.com, http://b.com,,")
	got := getStringSliceEnv("TEST_ORIGINS", []string{"*"})
	want := []string{"http://a.com", "http://b.com"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("getStringSliceEnv() = %v, want %v", got, want)
	}

	t.Setenv("TEST_ORIGINS", " , ")
	if got := getStringSliceEnv("TEST_ORIGINS", []string{"*"}); !reflect.DeepEqual(got, []string{"*"}) {
		t.Fatalf("blank list should fall back, got %v", got)
	}
}

func TestTypedEnvFallbacks(t *testing.T) {
	t.Setenv("TEST_DUR", "nope")
	t.Setenv("TEST_BOOL", "yes-ish")
	t.Setenv("TEST_INT", "12")

	if got := getDurationEnv("TEST_DUR", time.Second); got != time.Second {
		t.Fatalf("duration fallback = %v", got)
	}
	if got := getBoolEnv("TEST_BOOL", true); !got {
		t.Fatal("bool fallback lost")
	}
	if got := getInt32Env("TEST_INT", 1); got != 12 {
		t.Fatalf("int = %d", got)
	}
}

func TestValidateByDriver(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"postgres without password", Config{Store: StoreConfig{Driver: DriverPostgres}}, true},
		{"postgres with password", Config{Store: StoreConfig{Driver: DriverPostgres}, Database: DatabaseConfig{Password: "x"}}, false},
		{"mongo without uri", Config{Store: StoreConfig{Driver: DriverMongo}}, true},
		{"mongo with uri", Config{Store: StoreConfig{Driver: DriverMongo}, Mongo: MongoConfig{URI: "mongodb://localhost"}}, false},
		{"memory", Config{Store: StoreConfig{Driver: DriverMemory}}, false},
		{"unknown", Config{Store: StoreConfig{Driver: "sqlite"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsEmailConfigured(t *testing.T) {
	c := &Config{Email: EmailConfig{SendGridAPIKey: "k"}}
	if c.IsEmailConfigured() {
		t.Fatal("sender address is required")
	}
	c.Email.FromEmail = "noreply@example.com"
	if !c.IsEmailConfigured() {
		t.Fatal("sendgrid key plus sender should be enough")
	}
}
