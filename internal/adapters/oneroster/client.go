package oneroster

// Package oneroster fetches roster data from a OneRoster 1.1 provider. Field
// extraction is driven by JMESPath expressions so districts with non-standard
// response shapes can be onboarded through configuration alone.

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"

	domainauth "github.com/classdash/classdash/internal/domain/auth"
	"github.com/classdash/classdash/internal/domain/model"
	apperrors "github.com/classdash/classdash/internal/errors"
)

const (
	defaultPageSize = 200
	defaultTimeout  = 30 * time.Second

	statusActive = "active"
)

// Extraction holds the JMESPath expressions used to pull fields out of
// provider responses. Zero values fall back to the OneRoster 1.1 shape.
type Extraction struct {
	UsersCollection       string
	ClassesCollection     string
	EnrollmentsCollection string

	UserSourcedID  string
	UserGivenName  string
	UserFamilyName string
	UserEmail      string
	UserRole       string
	UserStatus     string

	ClassSourcedID string
	ClassTitle     string
	ClassCode      string
	ClassStatus    string

	EnrollmentSourcedID string
	EnrollmentUser      string
	EnrollmentClass     string
	EnrollmentRole      string
	EnrollmentStatus    string
}

func (e Extraction) withDefaults() Extraction {
	def := func(v, fallback string) string {
		if v == "" {
			return fallback
		}
		return v
	}
	return Extraction{
		UsersCollection:       def(e.UsersCollection, "users"),
		ClassesCollection:     def(e.ClassesCollection, "classes"),
		EnrollmentsCollection: def(e.EnrollmentsCollection, "enrollments"),

		UserSourcedID:  def(e.UserSourcedID, "sourcedId"),
		UserGivenName:  def(e.UserGivenName, "givenName"),
		UserFamilyName: def(e.UserFamilyName, "familyName"),
		UserEmail:      def(e.UserEmail, "email"),
		UserRole:       def(e.UserRole, "role"),
		UserStatus:     def(e.UserStatus, "status"),

		ClassSourcedID: def(e.ClassSourcedID, "sourcedId"),
		ClassTitle:     def(e.ClassTitle, "title"),
		ClassCode:      def(e.ClassCode, "classCode"),
		ClassStatus:    def(e.ClassStatus, "status"),

		EnrollmentSourcedID: def(e.EnrollmentSourcedID, "sourcedId"),
		EnrollmentUser:      def(e.EnrollmentUser, "user.sourcedId"),
		EnrollmentClass:     def(e.EnrollmentClass, "class.sourcedId"),
		EnrollmentRole:      def(e.EnrollmentRole, "role"),
		EnrollmentStatus:    def(e.EnrollmentStatus, "status"),
	}
}

// validate compiles every expression so a bad one fails at construction, not
// mid-sync.
func (e Extraction) validate() error {
	for _, expr := range []string{
		e.UsersCollection, e.ClassesCollection, e.EnrollmentsCollection,
		e.UserSourcedID, e.UserGivenName, e.UserFamilyName, e.UserEmail, e.UserRole, e.UserStatus,
		e.ClassSourcedID, e.ClassTitle, e.ClassCode, e.ClassStatus,
		e.EnrollmentSourcedID, e.EnrollmentUser, e.EnrollmentClass, e.EnrollmentRole, e.EnrollmentStatus,
	} {
		if _, err := jmespath.Compile(expr); err != nil {
			return apperrors.Configf("invalid extraction expression %q: %v", expr, err)
		}
	}
	return nil
}

// Config holds configuration for the OneRoster client.
type Config struct {
	// BaseURL is the provider root, e.g. https://district.oneroster.com/ims/oneroster/v1p1.
	BaseURL string
	// Token is the bearer credential for the feed.
	Token string
	// TenantID prefixes every sourcedId so multiple districts can share one
	// database.
	TenantID string
	// PageSize bounds each page fetch. Zero uses the default.
	PageSize int
	// Extraction overrides the response-shape expressions.
	Extraction Extraction
	// HTTPClient is optional; a client with a bounded timeout is used when nil.
	HTTPClient *http.Client
}

// Client pages through a OneRoster provider and maps records into domain types.
type Client struct {
	baseURL    string
	token      string
	tenantID   string
	pageSize   int
	extraction Extraction
	httpClient *http.Client
}

// NewClient constructs a OneRoster client.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, apperrors.Config("OneRoster base URL is not configured")
	}
	if strings.TrimSpace(cfg.TenantID) == "" {
		return nil, apperrors.Config("OneRoster tenant ID is not configured")
	}

	extraction := cfg.Extraction.withDefaults()
	if err := extraction.validate(); err != nil {
		return nil, err
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return &Client{
		baseURL:    base,
		token:      cfg.Token,
		tenantID:   strings.TrimSpace(cfg.TenantID),
		pageSize:   pageSize,
		extraction: extraction,
		httpClient: httpClient,
	}, nil
}

// FetchUsers pages through /users and returns active users with composite IDs.
func (c *Client) FetchUsers(ctx context.Context) ([]model.User, error) {
	records, err := c.fetchAll(ctx, "users", c.extraction.UsersCollection)
	if err != nil {
		return nil, err
	}

	users := make([]model.User, 0, len(records))
	for _, rec := range records {
		if !c.isActive(rec, c.extraction.UserStatus) {
			continue
		}
		sourcedID := c.stringField(rec, c.extraction.UserSourcedID)
		if sourcedID == "" {
			continue
		}
		users = append(users, model.User{
			UserID:    c.compositeID(sourcedID),
			SourcedID: sourcedID,
			TenantID:  c.tenantID,
			FirstName: c.stringField(rec, c.extraction.UserGivenName),
			LastName:  c.stringField(rec, c.extraction.UserFamilyName),
			Email:     c.stringField(rec, c.extraction.UserEmail),
			Role:      domainauth.ParseRole(c.stringField(rec, c.extraction.UserRole)),
		})
	}
	return users, nil
}

// FetchClasses pages through /classes and returns active classes.
func (c *Client) FetchClasses(ctx context.Context) ([]model.Class, error) {
	records, err := c.fetchAll(ctx, "classes", c.extraction.ClassesCollection)
	if err != nil {
		return nil, err
	}

	classes := make([]model.Class, 0, len(records))
	for _, rec := range records {
		if !c.isActive(rec, c.extraction.ClassStatus) {
			continue
		}
		sourcedID := c.stringField(rec, c.extraction.ClassSourcedID)
		if sourcedID == "" {
			continue
		}
		classes = append(classes, model.Class{
			ClassID:    c.compositeID(sourcedID),
			ClassName:  c.stringField(rec, c.extraction.ClassTitle),
			CourseCode: c.stringField(rec, c.extraction.ClassCode),
		})
	}
	return classes, nil
}

// EnrollmentRecord pairs an enrollment with its stable feed identifier.
type EnrollmentRecord struct {
	ID         string
	Enrollment model.Enrollment
}

// FetchEnrollments pages through /enrollments and returns active enrollments
// in feed order.
func (c *Client) FetchEnrollments(ctx context.Context) ([]EnrollmentRecord, error) {
	records, err := c.fetchAll(ctx, "enrollments", c.extraction.EnrollmentsCollection)
	if err != nil {
		return nil, err
	}

	out := make([]EnrollmentRecord, 0, len(records))
	for _, rec := range records {
		if !c.isActive(rec, c.extraction.EnrollmentStatus) {
			continue
		}
		sourcedID := c.stringField(rec, c.extraction.EnrollmentSourcedID)
		userSourcedID := c.stringField(rec, c.extraction.EnrollmentUser)
		classSourcedID := c.stringField(rec, c.extraction.EnrollmentClass)
		if sourcedID == "" || userSourcedID == "" || classSourcedID == "" {
			continue
		}
		out = append(out, EnrollmentRecord{
			ID: c.compositeID(sourcedID),
			Enrollment: model.Enrollment{
				UserID:  c.compositeID(userSourcedID),
				ClassID: c.compositeID(classSourcedID),
				Role:    domainauth.ParseRole(c.stringField(rec, c.extraction.EnrollmentRole)),
			},
		})
	}
	return out, nil
}

// fetchAll walks the limit/offset paging loop for one collection until a page
// comes back short.
func (c *Client) fetchAll(ctx context.Context, path, collectionExpr string) ([]any, error) {
	var all []any
	offset := 0
	for {
		page, err := c.fetchPage(ctx, path, collectionExpr, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < c.pageSize {
			return all, nil
		}
		offset += c.pageSize
	}
}

func (c *Client) fetchPage(ctx context.Context, path, collectionExpr string, offset int) ([]any, error) {
	u := fmt.Sprintf("%s/%s?%s", c.baseURL, path, url.Values{
		"limit":  {fmt.Sprint(c.pageSize)},
		"offset": {fmt.Sprint(offset)},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "build feed request")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeNetwork, "fetch %s page at offset %d", path, offset)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.Networkf("feed returned status %d for %s", resp.StatusCode, path)
	}

	var body any
	if decodeErr := json.NewDecoder(resp.Body).Decode(&body); decodeErr != nil {
		return nil, apperrors.Wrapf(decodeErr, apperrors.ErrCodeMalformedPayload, "decode %s page", path)
	}

	collection, err := jmespath.Search(collectionExpr, body)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeMalformedPayload, "extract %s collection", path)
	}
	records, ok := collection.([]any)
	if !ok {
		return nil, apperrors.MalformedPayloadf("%s collection is not an array", path)
	}
	return records, nil
}

func (c *Client) stringField(record any, expr string) string {
	v, err := jmespath.Search(expr, record)
	if err != nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

func (c *Client) isActive(record any, statusExpr string) bool {
	status := strings.ToLower(c.stringField(record, statusExpr))
	// Records with no status field at all are kept; only an explicit
	// non-active status drops them.
	return status == "" || status == statusActive
}

func (c *Client) compositeID(sourcedID string) string {
	return c.tenantID + "_" + sourcedID
}
