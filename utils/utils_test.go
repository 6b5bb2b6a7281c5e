package utils

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/golang-jwt/jwt/v5"
	"github.com/princinho/callboard/database"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

// fileHeaders builds real multipart.FileHeaders for the given name/content
// pairs by round-tripping them through a multipart body.
func fileHeaders(t *testing.T, files map[string][]byte) []*multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, content := range files {
		part, err := w.CreateFormFile("file", name)
		if err != nil {
			t.Fatalf("CreateFormFile failed: %v", err)
		}
		_, _ = part.Write(content)
	}
	_ = w.Close()

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(10 << 20)
	if err != nil {
		t.Fatalf("ReadForm failed: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"]
}

func TestPassword_HashAndCheck(t *testing.T) {
	hash, err := HashPassword("qwerty123", 4)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "qwerty123" {
		t.Fatal("Password stored in clear text")
	}
	if err := CheckPassword(hash, "qwerty123"); err != nil {
		t.Errorf("Expected password to match: %v", err)
	}
	if err := CheckPassword(hash, "qwerty124"); err == nil {
		t.Error("Expected mismatch for wrong password")
	}
}

func TestToken_RoundTrip(t *testing.T) {
	token, err := GenerateToken("uid-1", "sid-1", "secret", 0)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := ValidateToken(token, "secret")
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != "uid-1" || claims.SessionID != "sid-1" {
		t.Errorf("Unexpected claims %+v", claims)
	}
	if claims.ExpiresAt != nil {
		t.Errorf("Expected no expiry, got %v", claims.ExpiresAt)
	}

	if _, err := ValidateToken(token, "other-secret"); err == nil {
		t.Error("Expected token signed with another secret to be rejected")
	}
	if _, err := ValidateToken("not-a-token", "secret"); err == nil {
		t.Error("Expected garbage to be rejected")
	}
}

func TestToken_Expiry(t *testing.T) {
	token, err := GenerateToken("uid-1", "sid-1", "secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	claims, err := ValidateToken(token, "secret")
	if err != nil || claims.ExpiresAt == nil {
		t.Fatalf("Expected a valid expiring token, got %+v, %v", claims, err)
	}

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:    "uid-1",
		SessionID: "sid-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	signed, _ := expired.SignedString([]byte("secret"))
	if _, err := ValidateToken(signed, "secret"); err == nil {
		t.Error("Expected expired token to be rejected")
	}
}

func TestToken_RejectsOtherAlgorithmsAndMissingClaims(t *testing.T) {
	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{UserID: "u", SessionID: "s"})
	signed, _ := hs512.SignedString([]byte("secret"))
	if _, err := ValidateToken(signed, "secret"); err == nil {
		t.Error("Expected HS512 token to be rejected")
	}

	noSession := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "u"})
	signed, _ = noSession.SignedString([]byte("secret"))
	if _, err := ValidateToken(signed, "secret"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken, got %v", err)
	}
}

func TestGenerateSlug(t *testing.T) {
	cases := map[string]string{
		"Vélo rouge!":          "velo-rouge",
		"  iPhone 12 Pro  ":    "iphone-12-pro",
		"---":                  "",
		"Sofa & armchair, set": "sofa-armchair-set",
	}
	for in, want := range cases {
		if got := GenerateSlug(in); got != want {
			t.Errorf("GenerateSlug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidationMessage(t *testing.T) {
	SetupBinding()

	type body struct {
		Email    string   `json:"email" binding:"required"`
		Page     int      `form:"page" binding:"min=1,max=3"`
		Category string   `form:"category" binding:"omitempty,category"`
		CallID   string   `uri:"callId" binding:"omitempty,objectid"`
		Price    *float64 `form:"price" binding:"omitempty,gte=0"`
	}
	negative := -1.0

	cases := []struct {
		name string
		in   body
		want string
	}{
		{"required", body{Page: 1}, `"email" is required`},
		{"max", body{Email: "a", Page: 4}, `"page" must be less than or equal to 3`},
		{"min", body{Email: "a", Page: 0}, `"page" must be greater than or equal to 1`},
		{"category", body{Email: "a", Page: 1, Category: "toys"}, `"category" must be one of [property, transport, work, electronics, businessAndServices, recreationAndSport, free, trade]`},
		{"objectid", body{Email: "a", Page: 1, CallID: "123"}, "Invalid 'callId'. Must be a MongoDB ObjectId"},
		{"gte", body{Email: "a", Page: 1, Price: &negative}, `"price" must be greater than or equal to 0`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(&tc.in)
			if err == nil {
				t.Fatal("Expected a validation error")
			}
			if got := ValidationMessage(err); got != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestValidationMessage_UnknownJSONField(t *testing.T) {
	SetupBinding()

	type body struct {
		Email string `json:"email"`
	}
	var b body
	err := binding.JSON.BindBody([]byte(`{"email":"a","role":"admin"}`), &b)
	if err == nil {
		t.Fatal("Expected unknown field to be rejected")
	}
	if got := ValidationMessage(err); got != `"role" is not allowed` {
		t.Errorf("Unexpected message %q", got)
	}

	err = binding.JSON.BindBody([]byte(`{"email":5}`), &b)
	if got := ValidationMessage(err); got != `"email" must be a string` {
		t.Errorf("Unexpected message %q", got)
	}
}

func TestImageValidator(t *testing.T) {
	v := NewImageValidator(1)

	files := fileHeaders(t, map[string][]byte{"photo.png": pngHeader})
	mime, err := v.ValidateFile(files[0])
	if err != nil {
		t.Fatalf("Expected png to pass, got %v", err)
	}
	if mime != "image/png" {
		t.Errorf("Expected image/png, got %s", mime)
	}

	files = fileHeaders(t, map[string][]byte{"notes.txt": []byte("hello")})
	if _, err := v.ValidateFile(files[0]); !errors.Is(err, ErrNotAnImage) {
		t.Errorf("Expected ErrNotAnImage for txt, got %v", err)
	}

	// an image extension does not help when the content is not an image
	files = fileHeaders(t, map[string][]byte{"fake.jpg": []byte("plain text content")})
	if _, err := v.ValidateFile(files[0]); !errors.Is(err, ErrNotAnImage) {
		t.Errorf("Expected ErrNotAnImage for disguised file, got %v", err)
	}

	big := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 2<<20)...)
	files = fileHeaders(t, map[string][]byte{"big.png": big})
	_, err = v.ValidateFile(files[0])
	if err == nil || errors.Is(err, ErrNotAnImage) || !strings.Contains(err.Error(), "too large") {
		t.Errorf("Expected size error, got %v", err)
	}
}

type fakeStorage struct {
	failOn   int
	uploaded []string
	deleted  []string
}

func (f *fakeStorage) Upload(_ context.Context, folder string, fh *multipart.FileHeader) (string, error) {
	if len(f.uploaded)+1 == f.failOn {
		return "", errors.New("boom")
	}
	url := "https://img.test/" + folder + "/" + fh.Filename
	f.uploaded = append(f.uploaded, url)
	return url, nil
}

func (f *fakeStorage) Delete(_ context.Context, urls []string) error {
	f.deleted = append(f.deleted, urls...)
	return nil
}

func TestUploadImages(t *testing.T) {
	files := fileHeaders(t, map[string][]byte{"a.png": pngHeader, "b.png": pngHeader})

	s := &fakeStorage{}
	urls, err := UploadImages(context.Background(), s, "calls/bike", files)
	if err != nil {
		t.Fatalf("UploadImages failed: %v", err)
	}
	if len(urls) != 2 || !strings.HasPrefix(urls[0], "https://img.test/calls/bike/") {
		t.Errorf("Unexpected urls %v", urls)
	}
}

func TestUploadImages_CleansUpOnFailure(t *testing.T) {
	files := fileHeaders(t, map[string][]byte{"a.png": pngHeader, "b.png": pngHeader})

	s := &fakeStorage{failOn: 2}
	if _, err := UploadImages(context.Background(), s, "calls/bike", files); err == nil {
		t.Fatal("Expected an error")
	}
	if len(s.deleted) != 1 || s.deleted[0] != s.uploaded[0] {
		t.Errorf("Expected the first upload to be removed, deleted %v", s.deleted)
	}
}

func TestObjectName(t *testing.T) {
	name := objectName("/calls/bike/", "Photo.JPG")
	if !strings.HasPrefix(name, "calls/bike/") || !strings.HasSuffix(name, ".jpg") {
		t.Errorf("Unexpected object name %s", name)
	}
	if name == objectName("calls/bike", "Photo.JPG") {
		t.Error("Expected object names to be unique")
	}
	if !strings.HasPrefix(objectName("", "x"), "misc/") {
		t.Error("Expected empty folder to fall back to misc")
	}
}

func TestObjectNameFromGCSPublicURL(t *testing.T) {
	cases := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{"https://storage.googleapis.com/bucket/calls/a.png", "calls/a.png", false},
		{"https://bucket.storage.googleapis.com/avatars/b.png", "avatars/b.png", false},
		{"https://storage.googleapis.com/other/calls/a.png", "", true},
		{"https://i.ibb.co/K7j3rZk/99-512.png", "", true},
	}
	for _, tc := range cases {
		got, err := ObjectNameFromGCSPublicURL("bucket", tc.url)
		if (err != nil) != tc.wantErr {
			t.Errorf("%s: unexpected error %v", tc.url, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%s: expected %q, got %q", tc.url, tc.want, got)
		}
	}
	if gcsPublicURL("bucket", "calls/a.png") != "https://storage.googleapis.com/bucket/calls/a.png" {
		t.Error("Unexpected public url")
	}
}

func TestR2URLs(t *testing.T) {
	r := &R2Storage{bucket: "ads", publicDomain: "https://cdn.test"}
	url := r.publicURL("calls/a.png")
	if url != "https://cdn.test/ads/calls/a.png" {
		t.Errorf("Unexpected public url %s", url)
	}
	name, err := r.objectNameFromURL(url)
	if err != nil || name != "calls/a.png" {
		t.Errorf("Expected calls/a.png, got %q, %v", name, err)
	}
	if _, err := r.objectNameFromURL("https://elsewhere.test/ads/x.png"); err == nil {
		t.Error("Expected foreign url to be rejected")
	}
}

func TestSeedAds(t *testing.T) {
	ctx := context.Background()
	stores := database.NewMemoryStores()

	if err := SeedAds(ctx, stores.Ads, ""); err != nil {
		t.Fatalf("Empty path must be a no-op, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "ads.json")
	raw := `[{"title":"one","imageUrl":"https://img.test/1.png"},{"title":"two","imageUrl":"https://img.test/2.png","link":"https://x.test"}]`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatal(err)
	}
	// seeding twice must not duplicate banners
	for i := 0; i < 2; i++ {
		if err := SeedAds(ctx, stores.Ads, path); err != nil {
			t.Fatalf("SeedAds failed: %v", err)
		}
	}
	ads, _ := stores.Ads.List(ctx)
	if len(ads) != 2 {
		t.Errorf("Expected 2 ads, got %d", len(ads))
	}

	_ = os.WriteFile(path, []byte(`[{"title":"no image"}]`), 0o600)
	if err := SeedAds(ctx, stores.Ads, path); err == nil {
		t.Error("Expected an entry without imageUrl to be rejected")
	}
}
