package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/edulytics/edulytics-server/internal/auth"
	"github.com/edulytics/edulytics-server/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	name       string
	email      string
	password   string
	role       domain.Role
	semesterID uint
}

// NewUserBuilder creates a new UserBuilder for a TEACHER with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		name:     "Test User",
		email:    fmt.Sprintf("user_%s@example.com", uuid.New().String()[:8]),
		password: "testpassword123",
		role:     domain.RoleTeacher,
	}
}

func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.name = name
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// AsStudent makes the user a STUDENT enrolled in semesterID.
func (b *UserBuilder) AsStudent(semesterID uint) *UserBuilder {
	b.role = domain.RoleStudent
	b.semesterID = semesterID
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         b.name,
		Email:        domain.NormalizeEmail(b.email),
		PasswordHash: string(hashedPassword),
		Role:         b.role,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		if b.role != domain.RoleStudent {
			return nil
		}
		return tx.Create(&domain.StudentProfile{
			StudentID:     user.ID,
			SemesterID:    b.semesterID,
			FrontendLevel: 3,
			BackendLevel:  2,
		}).Error
	})
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// BuildAndLogin creates the user and logs in with client, leaving the
// session cookie in the client's jar.
func (b *UserBuilder) BuildAndLogin(t *testing.T, ts *TestServer, client *http.Client) *domain.User {
	t.Helper()

	user, password := b.Build(t, ts.DB.DB)
	resp := PostJSON(t, client, ts.APIURL("/auth/login"), map[string]string{
		"email":    user.Email,
		"password": password,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed with status %d", resp.StatusCode)
	}
	return user
}

// SessionCookie returns the session cookie set on resp, if any.
func SessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	return nil
}

// SeedAcademics inserts one course with two semesters and returns the
// semester ids in order.
func SeedAcademics(t *testing.T, db *gorm.DB) []uint {
	t.Helper()

	course := &domain.Course{Code: "BCA", Name: "Bachelor of Computer Applications"}
	if err := db.Create(course).Error; err != nil {
		t.Fatalf("failed to create course: %v", err)
	}

	var ids []uint
	for no := 1; no <= 2; no++ {
		semester := &domain.Semester{CourseID: course.ID, SemesterNo: no}
		if err := db.Create(semester).Error; err != nil {
			t.Fatalf("failed to create semester: %v", err)
		}
		ids = append(ids, semester.ID)
	}
	return ids
}

// PostJSON sends body as JSON with client.
func PostJSON(t *testing.T, client *http.Client, url string, body any) *http.Response {
	t.Helper()
	return DoJSON(t, client, http.MethodPost, url, body)
}

// DoJSON sends a request with an optional JSON body.
func DoJSON(t *testing.T, client *http.Client, method, url string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}
