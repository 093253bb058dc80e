package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/market_api/internal/config"
	"github.com/GTDGit/market_api/internal/policy"
	"github.com/GTDGit/market_api/internal/utils"
)

// Upload kinds accepted by Presign.
const (
	UploadProductImage = "product-image"
	UploadMessageFile  = "message-file"
)

// ObjectPresigner signs S3 PUT requests. *s3.PresignClient implements it.
type ObjectPresigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// NewS3Presigner builds a presign client for the media bucket. Static
// credentials are used when configured, otherwise the default AWS chain.
func NewS3Presigner(ctx context.Context, cfg *config.S3Config) (*s3.PresignClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("S3 config is nil")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	} else {
		log.Warn().Msg("S3 credentials not configured - falling back to the default AWS credential chain")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return s3.NewPresignClient(client), nil
}

// UploadService hands out presigned URLs so clients upload media straight to
// the bucket; the API only stores the resulting URL.
type UploadService struct {
	presigner ObjectPresigner
	bucket    string
	ttl       time.Duration
	newID     func() string
}

// NewUploadService constructs an UploadService.
func NewUploadService(presigner ObjectPresigner, bucket string, ttl time.Duration) *UploadService {
	return &UploadService{
		presigner: presigner,
		bucket:    bucket,
		ttl:       ttl,
		newID:     func() string { return uuid.New().String() },
	}
}

// PresignRequest is the body of POST /uploads/presign.
type PresignRequest struct {
	Kind        string `json:"kind" binding:"required"`
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// PresignedUpload tells the client where and how to PUT the file.
type PresignedUpload struct {
	URL       string            `json:"url"`
	Method    string            `json:"method"`
	Key       string            `json:"key"`
	Headers   map[string]string `json:"headers"`
	ExpiresIn int               `json:"expires_in"`
}

// Presign issues a presigned PUT for a new object owned by the principal.
func (s *UploadService) Presign(ctx context.Context, p policy.Principal, req *PresignRequest) (*PresignedUpload, error) {
	if err := authorize(p, policy.Unowned(policy.KindUpload), policy.Write); err != nil {
		return nil, err
	}

	contentType := strings.ToLower(strings.TrimSpace(req.ContentType))
	var prefix string
	switch req.Kind {
	case UploadProductImage:
		if !strings.HasPrefix(contentType, "image/") {
			return nil, utils.Validation("product images must have an image/* content type")
		}
		prefix = "products"
	case UploadMessageFile:
		prefix = "messages"
	default:
		return nil, utils.Validation("kind must be product-image or message-file")
	}
	if contentType == "" {
		return nil, utils.Validation("content_type is required")
	}

	ext := strings.ToLower(path.Ext(path.Base(req.Filename)))
	if len(ext) > 10 {
		ext = ""
	}
	key := fmt.Sprintf("%s/%d/%s%s", prefix, p.UserID, s.newID(), ext)

	presigned, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(o *s3.PresignOptions) {
		o.Expires = s.ttl
	})
	if err != nil {
		return nil, fmt.Errorf("failed to presign put object: %w", err)
	}

	headers := make(map[string]string, len(presigned.SignedHeader))
	for k, v := range presigned.SignedHeader {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}

	return &PresignedUpload{
		URL:       presigned.URL,
		Method:    presigned.Method,
		Key:       key,
		Headers:   headers,
		ExpiresIn: int(s.ttl.Seconds()),
	}, nil
}
