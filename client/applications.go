package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bodrovis/unitx/jsonapi"
)

// Application is an IndividualApplication, a BusinessApplication or an UnknownResource.
type Application interface {
	ResourceID() string
	ResourceType() string
	isApplication()
}

// IndividualApplicationAttributes describe an application for a person.
type IndividualApplicationAttributes struct {
	FullName    FullName  `json:"fullName"`
	Email       string    `json:"email"`
	Phone       Phone     `json:"phone"`
	Address     Address   `json:"address"`
	DateOfBirth Date      `json:"dateOfBirth"`
	SSN         string    `json:"ssn,omitempty"`
	Passport    string    `json:"passport,omitempty"`
	Nationality string    `json:"nationality,omitempty"`
	IP          string    `json:"ip,omitempty"`
	Status      string    `json:"status"`
	Message     string    `json:"message,omitempty"`
	Archived    bool      `json:"archived"`
	Tags        Tags      `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// BusinessApplicationAttributes describe an application for a business.
type BusinessApplicationAttributes struct {
	Name                 string            `json:"name"`
	DBA                  string            `json:"dba,omitempty"`
	EIN                  string            `json:"ein"`
	EntityType           string            `json:"entityType"`
	StateOfIncorporation string            `json:"stateOfIncorporation"`
	Address              Address           `json:"address"`
	Phone                Phone             `json:"phone"`
	Contact              Contact           `json:"contact"`
	Officer              Officer           `json:"officer"`
	BeneficialOwners     []BeneficialOwner `json:"beneficialOwners,omitempty"`
	Status               string            `json:"status"`
	Message              string            `json:"message,omitempty"`
	Archived             bool              `json:"archived"`
	Tags                 Tags              `json:"tags,omitempty"`
	CreatedAt            time.Time         `json:"createdAt"`
}

// Officer is the controlling officer of a business applicant.
type Officer struct {
	FullName    FullName `json:"fullName"`
	Title       string   `json:"title,omitempty"`
	SSN         string   `json:"ssn,omitempty"`
	Passport    string   `json:"passport,omitempty"`
	Nationality string   `json:"nationality,omitempty"`
	DateOfBirth Date     `json:"dateOfBirth"`
	Address     Address  `json:"address"`
	Phone       Phone    `json:"phone"`
	Email       string   `json:"email"`
}

// BeneficialOwner owns 25% or more of a business applicant.
type BeneficialOwner struct {
	FullName    FullName `json:"fullName"`
	SSN         string   `json:"ssn,omitempty"`
	Passport    string   `json:"passport,omitempty"`
	Nationality string   `json:"nationality,omitempty"`
	DateOfBirth Date     `json:"dateOfBirth"`
	Address     Address  `json:"address"`
	Phone       Phone    `json:"phone"`
	Email       string   `json:"email"`
	Percentage  *int     `json:"percentage,omitempty"`
}

// IndividualApplication is an application to open an individual customer.
type IndividualApplication jsonapi.Resource[IndividualApplicationAttributes]

func (a IndividualApplication) ResourceID() string   { return a.ID }
func (a IndividualApplication) ResourceType() string { return a.Type }
func (IndividualApplication) isApplication()         {}

// BusinessApplication is an application to open a business customer.
type BusinessApplication jsonapi.Resource[BusinessApplicationAttributes]

func (a BusinessApplication) ResourceID() string   { return a.ID }
func (a BusinessApplication) ResourceType() string { return a.Type }
func (BusinessApplication) isApplication()         {}

var applicationUnion = jsonapi.NewUnion[Application]("application").
	Register("individualApplication", jsonapi.Variant(func(r jsonapi.Resource[IndividualApplicationAttributes]) Application {
		return IndividualApplication(r)
	})).
	Register("businessApplication", jsonapi.Variant(func(r jsonapi.Resource[BusinessApplicationAttributes]) Application {
		return BusinessApplication(r)
	})).
	Fallback(unknownVariant[Application])

// CreateApplicationRequest is the resource object sent to POST /applications.
// Type is "individualApplication" or "businessApplication"; Attributes is
// the matching Create*ApplicationAttributes value.
type CreateApplicationRequest struct {
	Type       string `json:"type"`
	Attributes any    `json:"attributes"`
}

// CreateIndividualApplicationAttributes are sent as individualApplication.
type CreateIndividualApplicationAttributes struct {
	FullName       FullName `json:"fullName"`
	Email          string   `json:"email"`
	Phone          Phone    `json:"phone"`
	Address        Address  `json:"address"`
	DateOfBirth    Date     `json:"dateOfBirth"`
	SSN            string   `json:"ssn,omitempty"`
	Passport       string   `json:"passport,omitempty"`
	Nationality    string   `json:"nationality,omitempty"`
	IP             string   `json:"ip,omitempty"`
	Tags           Tags     `json:"tags,omitempty"`
	IdempotencyKey string   `json:"idempotencyKey,omitempty"`
}

// CreateBusinessApplicationAttributes are sent as businessApplication.
type CreateBusinessApplicationAttributes struct {
	Name                 string            `json:"name"`
	DBA                  string            `json:"dba,omitempty"`
	EIN                  string            `json:"ein"`
	EntityType           string            `json:"entityType"`
	StateOfIncorporation string            `json:"stateOfIncorporation"`
	Address              Address           `json:"address"`
	Phone                Phone             `json:"phone"`
	Contact              Contact           `json:"contact"`
	Officer              Officer           `json:"officer"`
	BeneficialOwners     []BeneficialOwner `json:"beneficialOwners"`
	IP                   string            `json:"ip,omitempty"`
	Tags                 Tags              `json:"tags,omitempty"`
	IdempotencyKey       string            `json:"idempotencyKey,omitempty"`
}

// UpdateApplicationRequest is the PATCH /applications/{id} body before wrapping.
type UpdateApplicationRequest struct {
	Type       string                      `json:"type"`
	Attributes UpdateApplicationAttributes `json:"attributes"`
}

// UpdateApplicationAttributes are the fields PATCH accepts.
type UpdateApplicationAttributes struct {
	Tags Tags `json:"tags"`
}

// CancelApplicationAttributes carries the cancellation reason.
type CancelApplicationAttributes struct {
	Reason string `json:"reason"`
}

// ApplicationDocumentAttributes describe a document the applicant must provide.
type ApplicationDocumentAttributes struct {
	DocumentType string   `json:"documentType"`
	Status       string   `json:"status"`
	Description  string   `json:"description"`
	Name         string   `json:"name"`
	Address      *Address `json:"address,omitempty"`
	DateOfBirth  *Date    `json:"dateOfBirth,omitempty"`
	Passport     string   `json:"passport,omitempty"`
	EIN          string   `json:"ein,omitempty"`
	ReasonCode   string   `json:"reasonCode,omitempty"`
	Reason       string   `json:"reason,omitempty"`
}

// ApplicationDocument is one entry of GET /applications/{id}/documents.
type ApplicationDocument = jsonapi.Resource[ApplicationDocumentAttributes]

// ListApplicationsParams filters GET /applications.
type ListApplicationsParams struct {
	Page
	Query *string
	Email *string
	Tags  Tags
	Sort  *string
}

func (p ListApplicationsParams) values() *query {
	return newQuery().
		page(p.Page).
		setString("filter[query]", p.Query).
		setString("filter[email]", p.Email).
		setTags("filter[tags]", p.Tags).
		setString("sort", p.Sort)
}

// DocumentFileType is the media type of an uploaded application document.
type DocumentFileType string

const (
	FileTypeJPEG DocumentFileType = "image/jpeg"
	FileTypePNG  DocumentFileType = "image/png"
	FileTypePDF  DocumentFileType = "application/pdf"
)

func (t DocumentFileType) valid() bool {
	switch t {
	case FileTypeJPEG, FileTypePNG, FileTypePDF:
		return true
	}
	return false
}

// FileTypeFromPath maps .jpg/.jpeg, .png and .pdf extensions.
func FileTypeFromPath(name string) (DocumentFileType, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return FileTypeJPEG, nil
	case ".png":
		return FileTypePNG, nil
	case ".pdf":
		return FileTypePDF, nil
	}
	return "", fmt.Errorf("unsupported document extension %q", filepath.Ext(name))
}

// UploadDocumentParams select the target document slot and the file.
// Exactly one of Path and Reader must be set. FileType is derived from
// Path when empty.
type UploadDocumentParams struct {
	ApplicationID string
	DocumentID    string
	BackSide      bool
	Path          string
	Reader        io.Reader
	FileType      DocumentFileType
}

// ApplicationsResource wraps /applications.
type ApplicationsResource struct {
	*Resource
}

// Create submits a new application.
func (a *ApplicationsResource) Create(ctx context.Context, req CreateApplicationRequest) (*Response[Application], error) {
	body := jsonapi.Envelope[CreateApplicationRequest]{Data: req}
	return fetchOne(ctx, a.Resource, http.MethodPost, "", body, nil, applicationUnion)
}

// Get fetches an application by id.
func (a *ApplicationsResource) Get(ctx context.Context, id string) (*Response[Application], error) {
	if err := requireID("get application", "application id", id); err != nil {
		return nil, err
	}
	return fetchOne(ctx, a.Resource, http.MethodGet, "/"+id, nil, nil, applicationUnion)
}

// List returns a page of applications.
func (a *ApplicationsResource) List(ctx context.Context, params ListApplicationsParams) (*ListResponse[Application], error) {
	return fetchMany(ctx, a.Resource, "", &RequestOptions{Params: params.values().values()}, applicationUnion)
}

// Update patches an application's tags.
func (a *ApplicationsResource) Update(ctx context.Context, id string, req UpdateApplicationRequest) (*Response[Application], error) {
	if err := requireID("update application", "application id", id); err != nil {
		return nil, err
	}
	return fetchOne(ctx, a.Resource, http.MethodPatch, "/"+id, req, nil, applicationUnion)
}

// Cancel cancels a pending application.
func (a *ApplicationsResource) Cancel(ctx context.Context, id string, attrs CancelApplicationAttributes) (*Response[Application], error) {
	if err := requireID("cancel application", "application id", id); err != nil {
		return nil, err
	}
	return fetchOne(ctx, a.Resource, http.MethodPost, "/"+id+"/cancel", jsonapi.Wrap("applicationCancel", attrs), nil, applicationUnion)
}

// ListDocuments returns the documents the application still needs or holds.
func (a *ApplicationsResource) ListDocuments(ctx context.Context, id string) (*ListResponse[ApplicationDocument], error) {
	if err := requireID("list documents", "application id", id); err != nil {
		return nil, err
	}
	return fetchTypedList[ApplicationDocumentAttributes](ctx, a.Resource, "/"+id+"/documents", nil)
}

// UploadDocument streams a jpeg, png or pdf into a document slot with PUT.
func (a *ApplicationsResource) UploadDocument(ctx context.Context, p UploadDocumentParams) (*Response[ApplicationDocument], error) {
	if err := requireID("upload document", "application id", p.ApplicationID); err != nil {
		return nil, err
	}
	if err := requireID("upload document", "document id", p.DocumentID); err != nil {
		return nil, err
	}

	body, fileType, closeFn, err := openDocument(p)
	if err != nil {
		return nil, fmt.Errorf("upload document: %w", err)
	}
	defer closeFn()

	rel := "/" + p.ApplicationID + "/documents/" + p.DocumentID
	if p.BackSide {
		rel += "/back-side"
	}
	opts := &RequestOptions{Headers: http.Header{"Content-Type": {string(fileType)}}}
	return fetchTyped[ApplicationDocumentAttributes](ctx, a.Resource, http.MethodPut, rel, body, opts)
}

func openDocument(p UploadDocumentParams) (io.Reader, DocumentFileType, func(), error) {
	noop := func() {}
	switch {
	case p.Reader != nil && p.Path != "":
		return nil, "", noop, fmt.Errorf("set either a path or a reader, not both")
	case p.Reader != nil:
		if !p.FileType.valid() {
			return nil, "", noop, fmt.Errorf("unsupported file type %q", p.FileType)
		}
		return p.Reader, p.FileType, noop, nil
	case strings.TrimSpace(p.Path) == "":
		return nil, "", noop, fmt.Errorf("a path or a reader is required")
	}

	fileType := p.FileType
	if fileType == "" {
		ft, err := FileTypeFromPath(p.Path)
		if err != nil {
			return nil, "", noop, err
		}
		fileType = ft
	}
	if !fileType.valid() {
		return nil, "", noop, fmt.Errorf("unsupported file type %q", fileType)
	}

	cleanPath := filepath.Clean(p.Path)
	// sanity: ensure it's not a directory
	if fi, err := os.Stat(cleanPath); err != nil {
		return nil, "", noop, fmt.Errorf("stat %q: %w", cleanPath, err)
	} else if fi.IsDir() {
		return nil, "", noop, fmt.Errorf("%q is a directory, need a file", cleanPath)
	}

	f, err := os.Open(cleanPath)
	if err != nil {
		return nil, "", noop, fmt.Errorf("open %q: %w", cleanPath, err)
	}
	return f, fileType, func() { _ = f.Close() }, nil
}
