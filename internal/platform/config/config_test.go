package config

import (
	"testing"
	"time"

	kit "querygate/internal/platform/testkit"
)

func TestPrefixAndKey(t *testing.T) {
	auth := New().Prefix("AUTH_")
	if got := auth.key("USERNAME"); got != "AUTH_USERNAME" {
		t.Fatalf("key() = %q, want %q", got, "AUTH_USERNAME")
	}
	jwt := auth.Prefix("JWT_")
	if got := jwt.key("NAME"); got != "AUTH_JWT_NAME" {
		t.Fatalf("nested key() = %q, want %q", got, "AUTH_JWT_NAME")
	}
}

func TestOverlay_EnvWins(t *testing.T) {
	c := New().Overlay(map[string]string{
		"AUTH_USERNAME": "from-file",
		"AUTH_PASSWORD": " file-pass ",
	}).Prefix("AUTH_")
	t.Setenv("AUTH_USERNAME", "from-env")

	if got := c.MustString("USERNAME"); got != "from-env" {
		t.Fatalf("env should win, got %q", got)
	}
	if got := c.MustString("PASSWORD"); got != "file-pass" {
		t.Fatalf("overlay should fill gaps, got %q", got)
	}
	if got := c.MayString("MISSING", "def"); got != "def" {
		t.Fatalf("missing in both should use default, got %q", got)
	}
}

func TestOverlay_LaterWinsAndDoesNotMutate(t *testing.T) {
	base := New().Overlay(map[string]string{"K": "a"})
	next := base.Overlay(map[string]string{"K": "b"})
	if base.MayString("K", "") != "a" || next.MayString("K", "") != "b" {
		t.Fatalf("overlay merge wrong: base=%q next=%q", base.MayString("K", ""), next.MayString("K", ""))
	}
}

func TestMustString(t *testing.T) {
	c := New().Prefix("APP_")
	t.Setenv("APP_NAME", "  querygate ")
	if got := c.MustString("NAME"); got != "querygate" {
		t.Fatalf("MustString = %q, want %q", got, "querygate")
	}
	kit.MustPanic(t, func() { _ = c.MustString("MISSING") })
}

func TestMustInt64(t *testing.T) {
	c := New().Prefix("JWT_")
	t.Setenv("JWT_TTL", " -1000 ")
	if got := c.MustInt64("TTL"); got != -1000 {
		t.Fatalf("MustInt64 = %d, want -1000", got)
	}
	t.Setenv("JWT_BAD", "x")
	kit.MustPanic(t, func() { _ = c.MustInt64("BAD") })
}

func TestMustBase64(t *testing.T) {
	c := New().Prefix("JWT_")
	t.Setenv("JWT_SECRET", "c2VjcmV0") // "secret"
	if got := string(c.MustBase64("SECRET")); got != "secret" {
		t.Fatalf("MustBase64 = %q", got)
	}
	t.Setenv("JWT_BAD", "%%%")
	kit.MustPanic(t, func() { _ = c.MustBase64("BAD") })
	kit.MustPanic(t, func() { _ = c.MustBase64("MISSING") })
}

func TestMustPort(t *testing.T) {
	c := New().Prefix("P_")
	t.Setenv("P_PORT", "4000")
	if got := c.MustPort("PORT"); got != ":4000" {
		t.Fatalf("MustPort = %q, want %q", got, ":4000")
	}
	t.Setenv("P_OOB", "70000")
	kit.MustPanic(t, func() { _ = c.MustPort("OOB") })
}

func TestMayInt(t *testing.T) {
	c := New().Prefix("I_")
	if got := c.MayInt("MISSING", 9); got != 9 {
		t.Fatalf("MayInt default = %d, want %d", got, 9)
	}
	t.Setenv("I_OK", " 7 ")
	if got := c.MayInt("OK", 0); got != 7 {
		t.Fatalf("MayInt ok = %d, want %d", got, 7)
	}
	t.Setenv("I_BAD", "x")
	if got := c.MayInt("BAD", 3); got != 3 {
		t.Fatalf("MayInt bad -> default = %d, want %d", got, 3)
	}
}

func TestMayInt64(t *testing.T) {
	c := New().Prefix("I_")
	if got := c.MayInt64("MISSING", 1800000); got != 1800000 {
		t.Fatalf("MayInt64 default = %d", got)
	}
	t.Setenv("I_NEG", "-1000")
	if got := c.MayInt64("NEG", 0); got != -1000 {
		t.Fatalf("MayInt64 negative = %d", got)
	}
	t.Setenv("I_BAD", "1.5")
	if got := c.MayInt64("BAD", 4); got != 4 {
		t.Fatalf("MayInt64 bad -> default = %d", got)
	}
}

func TestMayBool(t *testing.T) {
	c := New().Prefix("B_")
	if got := c.MayBool("MISSING", true); got != true {
		t.Fatalf("MayBool default true expected")
	}
	t.Setenv("B_T", "true")
	if got := c.MayBool("T", false); got != true {
		t.Fatalf("MayBool true expected")
	}
	t.Setenv("B_BAD", "nope")
	if got := c.MayBool("BAD", false); got != false {
		t.Fatalf("MayBool bad -> default false expected")
	}
}

func TestMayDuration(t *testing.T) {
	c := New().Prefix("DUR_")
	if got := c.MayDuration("MISS", 5*time.Second); got != 5*time.Second {
		t.Fatalf("MayDuration default expected")
	}
	t.Setenv("DUR_OK", "150ms")
	if got := c.MayDuration("OK", time.Second); got != 150*time.Millisecond {
		t.Fatalf("MayDuration ok = %v, want %v", got, 150*time.Millisecond)
	}
	t.Setenv("DUR_BAD", "nope")
	if got := c.MayDuration("BAD", time.Minute); got != time.Minute {
		t.Fatalf("MayDuration bad -> default expected")
	}
}

func TestMayURL(t *testing.T) {
	c := New().Prefix("ENGINE_")
	if c.MayURL("MISSING") != nil {
		t.Fatal("unset URL should be nil")
	}
	t.Setenv("ENGINE_URL", "http://oap:12800/graphql")
	if u := c.MayURL("URL"); u == nil || u.Host != "oap:12800" {
		t.Fatalf("MayURL parsed wrong: %v", u)
	}
	t.Setenv("ENGINE_REL", "/graphql")
	kit.MustPanic(t, func() { _ = c.MayURL("REL") })
}

func TestMayCSV(t *testing.T) {
	c := New().Prefix("CSV_")
	def := []string{"/graphql"}
	if got := c.MayCSV("MISS", def); len(got) != 1 || got[0] != "/graphql" {
		t.Fatalf("MayCSV default mismatch: %#v", got)
	}
	t.Setenv("CSV_VALS", " /graphql, /agent/gRPC , ,/query ,, ")
	got := c.MayCSV("VALS", nil)
	want := []string{"/graphql", "/agent/gRPC", "/query"}
	if len(got) != len(want) {
		t.Fatalf("MayCSV len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("MayCSV[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	t.Setenv("CSV_EMPTY", " , ,")
	if got := c.MayCSV("EMPTY", def); len(got) != 1 {
		t.Fatalf("all-empty CSV should fall back, got %#v", got)
	}
}

func TestMayEnum(t *testing.T) {
	c := New().Prefix("E_")
	if got := c.MayEnum("MISS", "json", "json", "console"); got != "json" {
		t.Fatalf("MayEnum default = %q, want %q", got, "json")
	}
	t.Setenv("E_FMT", "Console")
	if got := c.MayEnum("FMT", "json", "json", "console"); got != "Console" {
		t.Fatalf("MayEnum allowed value = %q, want %q", got, "Console")
	}
	t.Setenv("E_BAD", "xml")
	kit.MustPanic(t, func() { _ = c.MayEnum("BAD", "json", "json", "console") })
}
