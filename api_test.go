package visitortoken

import (
	"bytes"
	"encoding/base64"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/anirudhraja/visitortoken/registry"
	"github.com/anirudhraja/visitortoken/schema"
)

func decodeToken(t *testing.T, token string) []byte {
	t.Helper()
	if strings.Contains(token, "=") {
		t.Fatalf("token %q is padded", token)
	}
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		t.Fatalf("token %q is not base64url: %v", token, err)
	}
	return data
}

func TestGenerateVisitorToken(t *testing.T) {
	first := GenerateVisitorToken()
	second := GenerateVisitorToken()
	if first == second {
		t.Fatalf("two tokens in a row are identical: %q", first)
	}

	now := time.Now().Unix()
	for _, token := range []string{first, second} {
		if len(token) < 20 || len(token) > 60 {
			t.Errorf("token %q has unexpected length %d", token, len(token))
		}
		// field 1 with an 11 byte payload always renders as Cgs or Cgt
		if !strings.HasPrefix(token, "Cgs") && !strings.HasPrefix(token, "Cgt") {
			t.Errorf("token %q does not start with Cgs/Cgt", token)
		}

		data := decodeToken(t, token)
		var issuedAt uint64
		var found bool
		for len(data) > 0 {
			num, typ, n := protowire.ConsumeTag(data)
			if n < 0 {
				t.Fatalf("bad tag: %v", protowire.ParseError(n))
			}
			data = data[n:]
			if num == 5 && typ == protowire.VarintType {
				v, m := protowire.ConsumeVarint(data)
				if m < 0 {
					t.Fatalf("bad varint: %v", protowire.ParseError(m))
				}
				issuedAt, found = v, true
			}
			m := protowire.ConsumeFieldValue(num, typ, data)
			if m < 0 {
				t.Fatalf("bad field value: %v", protowire.ParseError(m))
			}
			data = data[m:]
		}
		if !found {
			t.Fatalf("token %q has no field 5", token)
		}
		if age := now - int64(issuedAt); age < -1 || age >= 600000 {
			t.Errorf("issued_at %d is %ds away from now", issuedAt, age)
		}
	}
}

func TestGenerator_DecodesWithSchema(t *testing.T) {
	reg, err := registry.Default()
	if err != nil {
		t.Fatal(err)
	}
	fd, err := reg.FileDescriptor(schema.VisitorProtoName)
	if err != nil {
		t.Fatal(err)
	}
	md := fd.Messages().ByName("VisitorData")

	now := time.Unix(1700000000, 0)
	g := New(WithSource(NewSeededSource(5)), WithClock(func() time.Time { return now }))

	for i := 0; i < 50; i++ {
		token, err := g.Generate()
		if err != nil {
			t.Fatal(err)
		}

		msg := dynamicpb.NewMessage(md)
		if err := proto.Unmarshal(decodeToken(t, token), msg); err != nil {
			t.Fatalf("unmarshal %q: %v", token, err)
		}
		if len(msg.GetUnknown()) != 0 {
			t.Errorf("token %q has unknown fields", token)
		}

		fields := md.Fields()
		id := msg.Get(fields.ByName("visitor_id")).String()
		if len(id) != IdentifierLength || strings.Trim(id, IdentifierAlphabet) != "" {
			t.Errorf("bad visitor_id %q", id)
		}
		issuedAt := msg.Get(fields.ByName("issued_at")).Uint()
		if age := now.Unix() - int64(issuedAt); age < 0 || age >= 600000 {
			t.Errorf("issued_at %d out of window", issuedAt)
		}

		locale := msg.Get(fields.ByName("locale")).Message()
		localeFields := locale.Descriptor().Fields()
		if region := locale.Get(localeFields.ByName("region")).String(); region != Region {
			t.Errorf("expected region %q, got %q", Region, region)
		}
		extra := locale.Get(localeFields.ByName("extra")).Message()
		nonce := extra.Get(extra.Descriptor().Fields().ByName("nonce")).Uint()
		if nonce < 1 || nonce > MaxNonce {
			t.Errorf("nonce %d out of range", nonce)
		}
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	clock := func() time.Time { return time.Unix(1700000000, 0) }
	a := New(WithSource(NewSeededSource(11)), WithClock(clock))
	b := New(WithSource(NewSeededSource(11)), WithClock(clock))

	for i := 0; i < 10; i++ {
		ta, err := a.Generate()
		if err != nil {
			t.Fatal(err)
		}
		tb, err := b.Generate()
		if err != nil {
			t.Fatal(err)
		}
		if ta != tb {
			t.Fatalf("seeded generators diverged at %d: %q vs %q", i, ta, tb)
		}
	}
}

func TestGenerator_ScriptedSource(t *testing.T) {
	src := &scriptedSource{values: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 199, 1000}}
	g := New(WithSource(src), WithClock(func() time.Time { return time.Unix(1700000000, 0) }))

	token, err := g.Generate()
	if err != nil {
		t.Fatal(err)
	}
	if token != "CgtBQkNERUZHSElKSyiY2s-qBjILCgJVUxIFEgAgyAE" {
		t.Errorf("unexpected token %q", token)
	}
}

func TestGenerator_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	g := New(WithSource(NewSeededSource(1)), WithLogger(logger))

	if _, err := g.Generate(); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"generated visitor token", "visitor_id=", "issued_at=", "nonce="} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %s", want, out)
		}
	}
}

func TestGenerator_Concurrent(t *testing.T) {
	g := New(WithSource(NewSeededSource(21)))

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		tokens = make(map[string]struct{})
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				token, err := g.Generate()
				if err != nil {
					t.Error(err)
					return
				}
				mu.Lock()
				tokens[token] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(tokens) != 800 {
		t.Errorf("expected 800 distinct tokens, got %d", len(tokens))
	}
}
