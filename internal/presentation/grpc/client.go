package grpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/metadata"

	"github.com/loanlens/assessment/internal/application/dto"
)

// Client calls AssessmentService over the JSON codec.
type Client struct {
	conn  *grpc.ClientConn
	token string
}

// Dial opens a connection to target. Calls default to the JSON codec.
func Dial(target string, creds credentials.TransportCredentials, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(creds),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
	}, opts...)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", target, err)
	}
	return conn, nil
}

// NewClient wraps conn. A non-empty token is sent as a bearer credential on
// every call.
func NewClient(conn *grpc.ClientConn, token string) *Client {
	return &Client{conn: conn, token: token}
}

func (c *Client) outgoing(ctx context.Context) context.Context {
	if c.token == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+c.token)
}

// GetAssessment fetches an assessment by application ID.
func (c *Client) GetAssessment(ctx context.Context, applicationID string) (dto.AssessmentResponse, error) {
	var resp dto.AssessmentResponse
	req := &dto.GetAssessmentRequest{ApplicationID: applicationID}
	if err := c.conn.Invoke(c.outgoing(ctx), MethodGetAssessment, req, &resp); err != nil {
		return dto.AssessmentResponse{}, err
	}
	return resp, nil
}

// PreviewAssessment scores a profile without persisting it.
func (c *Client) PreviewAssessment(ctx context.Context, req dto.PreviewAssessmentRequest) (dto.PreviewAssessmentResponse, error) {
	var resp dto.PreviewAssessmentResponse
	if err := c.conn.Invoke(c.outgoing(ctx), MethodPreviewAssessment, &req, &resp); err != nil {
		return dto.PreviewAssessmentResponse{}, err
	}
	return resp, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
