package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/market_api/internal/policy"
)

type fakePresigner struct {
	input   *s3.PutObjectInput
	expires time.Duration
	err     error
}

func (f *fakePresigner) PresignPutObject(_ context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = params
	var opts s3.PresignOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	f.expires = opts.Expires
	return &v4.PresignedHTTPRequest{
		URL:          "https://media.example.com/" + aws.ToString(params.Key) + "?X-Amz-Signature=abc",
		Method:       http.MethodPut,
		SignedHeader: http.Header{"Content-Type": {aws.ToString(params.ContentType)}},
	}, nil
}

func newUploads(p ObjectPresigner) *UploadService {
	svc := NewUploadService(p, "market-media", 10*time.Minute)
	svc.newID = func() string { return "fixed" }
	return svc
}

func TestPresignProductImage(t *testing.T) {
	presigner := &fakePresigner{}
	svc := newUploads(presigner)
	p := policy.Principal{UserID: 42}

	up, err := svc.Presign(context.Background(), p, &PresignRequest{
		Kind: UploadProductImage, Filename: "Front.PNG", ContentType: "image/png",
	})
	require.NoError(t, err)
	assert.Equal(t, "products/42/fixed.png", up.Key)
	assert.Equal(t, http.MethodPut, up.Method)
	assert.Equal(t, 600, up.ExpiresIn)
	assert.Equal(t, "image/png", up.Headers["Content-Type"])
	assert.Equal(t, "market-media", aws.ToString(presigner.input.Bucket))
	assert.Equal(t, 10*time.Minute, presigner.expires)
}

func TestPresignRejectsBadRequests(t *testing.T) {
	svc := newUploads(&fakePresigner{})
	ctx := context.Background()
	p := policy.Principal{UserID: 42}

	_, err := svc.Presign(ctx, policy.Anonymous(), &PresignRequest{Kind: UploadMessageFile, Filename: "a.pdf", ContentType: "application/pdf"})
	assertStatus(t, err, http.StatusUnauthorized)
	_, err = svc.Presign(ctx, p, &PresignRequest{Kind: UploadProductImage, Filename: "a.pdf", ContentType: "application/pdf"})
	assertStatus(t, err, http.StatusBadRequest)
	_, err = svc.Presign(ctx, p, &PresignRequest{Kind: "avatar", Filename: "a.png", ContentType: "image/png"})
	assertStatus(t, err, http.StatusBadRequest)

	up, err := svc.Presign(ctx, p, &PresignRequest{Kind: UploadMessageFile, Filename: "invoice.pdf", ContentType: "application/pdf"})
	require.NoError(t, err)
	assert.Equal(t, "messages/42/fixed.pdf", up.Key)
}

func TestPresignSurfacesSignerFailure(t *testing.T) {
	svc := newUploads(&fakePresigner{err: errors.New("no credentials")})
	_, err := svc.Presign(context.Background(), policy.Principal{UserID: 1}, &PresignRequest{
		Kind: UploadMessageFile, Filename: "a.txt", ContentType: "text/plain",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no credentials")
}
