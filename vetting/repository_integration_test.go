package vetting

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TestPGStore_Integration connects to a real PostgreSQL via DATABASE_URL and
// verifies positional writes and by-name reads for both table variants.
func TestPGStore_Integration(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect pool: %v", err)
	}
	defer pool.Close()

	for _, tbl := range []string{"retail_candidates", "security_candidates"} {
		if !tableExists(ctx, t, pool, tbl) {
			t.Skipf("table %s missing; apply migrations first", tbl)
		}
	}

	ids := []string{}
	gen := func() string {
		id := uuid.NewString()
		ids = append(ids, id)
		return id
	}

	t.Cleanup(func() {
		ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel2()
		for _, tbl := range []string{"retail_candidates", "security_candidates"} {
			_, _ = pool.Exec(ctx2, `DELETE FROM `+tbl+` WHERE id = ANY($1::uuid[])`, ids)
		}
	})

	secStore := NewPGStore(pool, SecuritySchema).WithIDGenerator(gen)
	rec := Record{
		SubmittedDate: "05.07.24",
		FullName:      "Петренко Іван Олегович",
		BirthDate:     "19.10.1933",
		TaxID:         "1234567890",
		Status:        StatusPendingLabel,
		Company:       "ОХОРОНА",
	}
	if err := secStore.Append(ctx, rec); err != nil {
		t.Fatalf("append security: %v", err)
	}

	records, err := secStore.List(ctx)
	if err != nil {
		t.Fatalf("list security: %v", err)
	}
	found := false
	for _, got := range records {
		if got.TaxID == rec.TaxID && got.Company == rec.Company {
			found = true
			if got != rec {
				t.Fatalf("security round trip mismatch:\n got %+v\nwant %+v", got, rec)
			}
		}
	}
	if !found {
		t.Fatal("appended security record not returned by List")
	}

	retailStore := NewPGStore(pool, RetailSchema).WithIDGenerator(gen)
	rec = Record{
		SubmittedDate: "05.07.24",
		FullName:      "Шевченко Тарас Григорович",
		BirthDate:     "",
		TaxID:         "0987654321",
		Status:        StatusPendingLabel,
	}
	if err := retailStore.Append(ctx, rec); err != nil {
		t.Fatalf("append retail: %v", err)
	}

	records, err = retailStore.List(ctx)
	if err != nil {
		t.Fatalf("list retail: %v", err)
	}
	found = false
	for _, got := range records {
		if got.TaxID == rec.TaxID {
			found = true
			if got.ReviewDate != "" || got.Company != "" {
				t.Fatalf("retail variant should have no review date or company: %+v", got)
			}
		}
	}
	if !found {
		t.Fatal("appended retail record not returned by List")
	}
}

func tableExists(ctx context.Context, t *testing.T, pool *pgxpool.Pool, name string) bool {
	t.Helper()
	var exists bool
	if err := pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)`, name).Scan(&exists); err != nil {
		t.Fatalf("check table %s: %v", name, err)
	}
	return exists
}
