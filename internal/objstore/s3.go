package objstore

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/spf13/afero"
)

// Client abstracts the S3 API operations used by the S3 provider.
// The [s3.Client] type satisfies this interface.
type Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Options configures the S3 endpoint. Credentials come from Authenticate.
type S3Options struct {
	Region       string
	Endpoint     string // empty means the AWS default for Region
	UsePathStyle bool
	Prefix       string // prepended to every object key
}

// ClientFactory builds a Client from resolved SDK options.
type ClientFactory func(s3.Options) Client

// S3Provider implements Provider on top of aws-sdk-go-v2.
type S3Provider struct {
	fs        afero.Fs
	opts      S3Options
	newClient ClientFactory
}

// NewS3Provider creates a provider that reads local files from fs.
func NewS3Provider(fs afero.Fs, opts S3Options) *S3Provider {
	return &S3Provider{
		fs:   fs,
		opts: opts,
		newClient: func(o s3.Options) Client {
			return s3.New(o)
		},
	}
}

// WithClientFactory replaces the SDK client constructor. Used by tests.
func (p *S3Provider) WithClientFactory(f ClientFactory) *S3Provider {
	p.newClient = f
	return p
}

// Authenticate builds an S3 client bound to static credentials.
func (p *S3Provider) Authenticate(ctx context.Context, keyID, secret string) (Session, error) {
	if keyID == "" || secret == "" {
		return nil, ErrMissingCredentials
	}

	creds := aws.NewCredentialsCache(aws.CredentialsProviderFunc(
		func(context.Context) (aws.Credentials, error) {
			return aws.Credentials{
				AccessKeyID:     keyID,
				SecretAccessKey: secret,
				Source:          "contactbook",
			}, nil
		}))
	if _, err := creds.Retrieve(ctx); err != nil {
		return nil, fmt.Errorf("objstore: resolve credentials: %w", err)
	}

	o := s3.Options{
		Region:       p.opts.Region,
		Credentials:  creds,
		UsePathStyle: p.opts.UsePathStyle,
	}
	if p.opts.Endpoint != "" {
		o.BaseEndpoint = aws.String(p.opts.Endpoint)
	}

	return &s3Session{client: p.newClient(o), fs: p.fs, prefix: p.opts.Prefix}, nil
}

type s3Session struct {
	client Client
	fs     afero.Fs
	prefix string
}

func (s *s3Session) Bucket(name string) (Bucket, error) {
	if name == "" {
		return nil, ErrMissingBucket
	}
	return &s3Bucket{client: s.client, fs: s.fs, name: name, prefix: s.prefix}, nil
}

type s3Bucket struct {
	client Client
	fs     afero.Fs
	name   string
	prefix string
}

// key builds the full S3 object key for remoteName.
func (b *s3Bucket) key(remoteName string) string {
	if b.prefix == "" {
		return remoteName
	}
	return path.Join(b.prefix, remoteName)
}

// Upload sends the local file with PutObject. The file handle is seekable so
// the SDK can sign the payload over plain HTTP endpoints too.
func (b *s3Bucket) Upload(ctx context.Context, localPath, remoteName string) error {
	key := b.key(remoteName)

	f, err := b.fs.Open(localPath)
	if err != nil {
		return &UploadError{Bucket: b.name, Key: key, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return &UploadError{Bucket: b.name, Key: key, Err: err}
	}

	_, err = b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.name),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String("text/csv"),
	})
	if err != nil {
		return &UploadError{Bucket: b.name, Key: key, Code: apiErrorCode(err), Err: err}
	}
	return nil
}

// apiErrorCode extracts the service error code, or "" for transport errors.
func apiErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

// Compile-time interface checks.
var (
	_ Provider = (*S3Provider)(nil)
	_ Client   = (*s3.Client)(nil)
)
