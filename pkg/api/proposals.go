package api

import (
	"context"
	"io"

	"github.com/Galinha2/super-nova-2177/internal/feed"
	"github.com/Galinha2/super-nova-2177/internal/logger"
	"github.com/Galinha2/super-nova-2177/internal/models"
	"github.com/Galinha2/super-nova-2177/internal/tally"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client talks to the proposals REST API. It implements feed.Backend and
// feed.MediaUploader.
type Client struct {
	http *resty.Client
}

var (
	_ feed.Backend       = (*Client)(nil)
	_ feed.MediaUploader = (*Client)(nil)
)

// New wraps an HTTP client
func New(http *resty.Client) *Client {
	return &Client{http: http}
}

// CreateProposalRequest is the body of POST /proposals
type CreateProposalRequest struct {
	Title     string         `json:"title"`
	Body      string         `json:"body,omitempty"`
	Author    string         `json:"author"`
	Species   models.Species `json:"species"`
	AuthorImg string         `json:"author_img,omitempty"`
	Image     string         `json:"image,omitempty"`
	Video     string         `json:"video,omitempty"`
	Link      string         `json:"link,omitempty"`
	File      string         `json:"file,omitempty"`
}

// VoteRequest is the body of POST /votes
type VoteRequest struct {
	ProposalID string         `json:"proposal_id"`
	Voter      string         `json:"voter"`
	Choice     string         `json:"choice"`
	VoterType  models.Species `json:"voter_type"`
}

// CommentRequest is the body of POST /comments
type CommentRequest struct {
	ProposalID string         `json:"proposal_id"`
	User       string         `json:"user"`
	UserImg    string         `json:"user_img,omitempty"`
	Species    models.Species `json:"species,omitempty"`
	Comment    string         `json:"comment"`
}

// ProposalsResponse is the body of GET /proposals
type ProposalsResponse struct {
	Proposals []models.Proposal `json:"proposals"`
}

// ProposalResponse wraps a single proposal
type ProposalResponse struct {
	Proposal models.Proposal `json:"proposal"`
}

// TallyResponse is the body of GET /proposals/:id/tally
type TallyResponse struct {
	Breakdown tally.Breakdown `json:"breakdown"`
	Decision  tally.Decision  `json:"decision"`
}

// UploadResponse is the body returned by the upload endpoints
type UploadResponse struct {
	URL string `json:"url"`
}

// ListProposals fetches proposals ordered and filtered by q
func (c *Client) ListProposals(ctx context.Context, q feed.Query) ([]models.Proposal, error) {
	logger.Log.Debug("Listing proposals", zap.String("query", q.Values().Encode()))

	var response ProposalsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(q.Values()).
		SetResult(&response).
		Get("/proposals")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return response.Proposals, nil
}

// GetProposal fetches a single proposal
func (c *Client) GetProposal(ctx context.Context, id string) (*models.Proposal, error) {
	var response ProposalResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetResult(&response).
		Get("/proposals/{id}")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return &response.Proposal, nil
}

// CreateProposal publishes a proposal whose media URLs are already known
func (c *Client) CreateProposal(ctx context.Context, draft models.ProposalDraft) (*models.Proposal, error) {
	logger.Log.Debug("Creating proposal", zap.String("title", draft.Title))

	req := CreateProposalRequest{
		Title:     draft.Title,
		Body:      draft.Body,
		Author:    draft.Author.Name,
		Species:   draft.Author.Species,
		AuthorImg: draft.Author.AvatarURL,
		Image:     draft.Media.Image,
		Video:     draft.Media.Video,
		Link:      draft.Media.Link,
		File:      draft.Media.File,
	}

	var response ProposalResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&response).
		Post("/proposals")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return &response.Proposal, nil
}

// CastVote records voter's choice, replacing any earlier vote
func (c *Client) CastVote(ctx context.Context, proposalID string, voter models.Identity, choice models.Choice) error {
	req := VoteRequest{
		ProposalID: proposalID,
		Voter:      voter.Name,
		Choice:     choice.String(),
		VoterType:  voter.Species,
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Post("/votes")
	return CheckResponse(resp, err)
}

// RetractVote removes voter's vote
func (c *Client) RetractVote(ctx context.Context, proposalID, voter string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("proposal_id", proposalID).
		SetQueryParam("voter", voter).
		Delete("/votes")
	return CheckResponse(resp, err)
}

// AddComment appends a comment on the server
func (c *Client) AddComment(ctx context.Context, proposalID string, comment models.Comment) error {
	req := CommentRequest{
		ProposalID: proposalID,
		User:       comment.User,
		UserImg:    comment.UserImg,
		Species:    comment.Species,
		Comment:    comment.Comment,
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Post("/comments")
	return CheckResponse(resp, err)
}

// Tally fetches the species breakdown and weighted decision of a proposal
func (c *Client) Tally(ctx context.Context, proposalID string, level tally.Level) (*TallyResponse, error) {
	var response TallyResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", proposalID).
		SetQueryParam("level", string(level)).
		SetResult(&response).
		Get("/proposals/{id}/tally")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return &response, nil
}

// UploadMedia uploads an image or file and returns its URL
func (c *Client) UploadMedia(ctx context.Context, kind models.MediaKind, filename string, body io.Reader) (string, error) {
	path := "/upload-file"
	if kind == models.MediaImage {
		path = "/upload-image"
	}
	logger.Log.Debug("Uploading media", zap.String("path", path), zap.String("filename", filename))

	var response UploadResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("file", filename, body).
		SetResult(&response).
		Post(path)
	if err := CheckResponse(resp, err); err != nil {
		return "", err
	}
	return response.URL, nil
}
