package catalog

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchAllDecodesProducts(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/get" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[
			{"product_name":"Keyboard","product_type":"Electronics","price":49.9,"tax":18,"image":"https://cdn.example/kb.jpg"},
			{"product_name":"Rice","product_type":"Groceries","price":2.5,"tax":0,"is_favorite":true}
		]`)
	}))
	defer ts.Close()

	c := NewRemoteClient(ts.URL)
	got, err := c.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d products, want 2", len(got))
	}
	if got[0].Name != "Keyboard" || got[0].Image != "https://cdn.example/kb.jpg" {
		t.Errorf("first product = %+v", got[0])
	}
	if got[1].IsFavorite {
		t.Error("remote payload must never set the favorite flag")
	}
}

func TestFetchAllBadStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := NewRemoteClient(ts.URL)
	if _, err := c.FetchAll(context.Background()); !errors.Is(err, ErrRemoteBadStatus) {
		t.Fatalf("err = %v, want ErrRemoteBadStatus", err)
	}
}

func TestFetchAllBadPayload(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"not":"an array"}`)
	}))
	defer ts.Close()

	c := NewRemoteClient(ts.URL)
	if _, err := c.FetchAll(context.Background()); !errors.Is(err, ErrRemoteDecode) {
		t.Fatalf("err = %v, want ErrRemoteDecode", err)
	}
}

func TestFetchAllUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	ts.Close()

	c := NewRemoteClient(ts.URL)
	if _, err := c.FetchAll(context.Background()); !errors.Is(err, ErrRemoteUnavailable) {
		t.Fatalf("err = %v, want ErrRemoteUnavailable", err)
	}
}

func TestSubmitEncodesMultipartForm(t *testing.T) {
	img := []byte{0xff, 0xd8, 0xff, 0xe0, 0x01, 0x02}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/add" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}

		for k, want := range map[string]string{
			"product_name": "Desk Lamp",
			"product_type": "Electronics",
			"price":        "19.99",
			"tax":          "18",
		} {
			if got := r.FormValue(k); got != want {
				t.Errorf("field %s = %q, want %q", k, got, want)
			}
		}

		file, hdr, err := r.FormFile("files[]")
		if err != nil {
			t.Fatalf("image part: %v", err)
		}
		defer file.Close()

		if hdr.Filename != "image.jpg" {
			t.Errorf("filename = %q", hdr.Filename)
		}
		if ct := hdr.Header.Get("Content-Type"); ct != "image/jpeg" {
			t.Errorf("image content type = %q", ct)
		}
		body, _ := io.ReadAll(file)
		if string(body) != string(img) {
			t.Errorf("image bytes mismatch: got %d bytes", len(body))
		}

		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	c := NewRemoteClient(ts.URL)
	ok, err := c.Submit(context.Background(), Product{
		Name:  "Desk Lamp",
		Type:  TypeElectronics,
		Price: 19.99,
		Tax:   18,
	}, img)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !ok {
		t.Fatal("Submit = false, want true")
	}
}

func TestSubmitWithoutImageOmitsFilePart(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if _, _, err := r.FormFile("files[]"); err == nil {
			t.Error("expected no image part")
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	c := NewRemoteClient(ts.URL)
	ok, err := c.Submit(context.Background(), Product{Name: "Plain", Type: TypeOthers, Price: 1, Tax: 0}, nil)
	if err != nil || !ok {
		t.Fatalf("Submit = %v, %v", ok, err)
	}
}

func TestSubmitServerFailureIsFalseNotError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	c := NewRemoteClient(ts.URL)
	ok, err := c.Submit(context.Background(), Product{Name: "X", Type: TypeOthers, Price: 1, Tax: 0}, nil)
	if err != nil {
		t.Fatalf("server failure must not surface as an error, got %v", err)
	}
	if ok {
		t.Fatal("Submit = true on 502")
	}
}

func TestSubmitTransportFailureIsFalseNotError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	ts.Close()

	c := NewRemoteClient(ts.URL)
	ok, err := c.Submit(context.Background(), Product{Name: "X", Type: TypeOthers, Price: 1, Tax: 0}, nil)
	if err != nil {
		t.Fatalf("transport failure must not surface as an error, got %v", err)
	}
	if ok {
		t.Fatal("Submit = true against a dead server")
	}
}
