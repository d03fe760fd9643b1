package db

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open("mysql", "whatever"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestOpenPostgresRequiresDSN(t *testing.T) {
	if _, err := Open("postgres", " "); err == nil {
		t.Fatal("expected error for empty postgres dsn")
	}
}

func TestInitCreatesParentDirAndMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cabpool.db")
	previous := DB
	t.Cleanup(func() { DB = previous })

	if err := Init("sqlite", path); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	for _, model := range Models() {
		if !DB.Migrator().HasTable(model) {
			t.Fatalf("expected table for %T", model)
		}
	}
	if sqlDB, err := DB.DB(); err == nil {
		sqlDB.Close()
	}
}

func TestEnsureUserCreatesHashedUserOnce(t *testing.T) {
	dsn := fmt.Sprintf("file:ensure-user-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	created, err := EnsureUser(gdb, " admin ", "s3cret")
	if err != nil || !created {
		t.Fatalf("expected user creation, created=%v err=%v", created, err)
	}

	created, err = EnsureUser(gdb, "admin", "other")
	if err != nil || created {
		t.Fatalf("expected existing user to be kept, created=%v err=%v", created, err)
	}

	var user User
	if err := gdb.Where("username = ?", "admin").First(&user).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("s3cret")) != nil {
		t.Fatal("expected stored password to be a bcrypt hash of the original")
	}

	created, err = EnsureUser(gdb, "", "")
	if err != nil || created {
		t.Fatal("expected blank credentials to be ignored")
	}
}
