package services

import (
	"context"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sc "github.com/irezaei/memberhub/internal/server/config"
)

func newAvatarService() *AvatarService {
	cfg := &sc.Config{}
	cfg.LoadDefaults()
	return NewAvatarService(cfg)
}

func stubPresignPipeline(t *testing.T) {
	t.Helper()

	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	origPut := presignPutObject
	origGet := presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignPutObject = origPut
		presignGetObject = origGet
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return &v4.PresignedHTTPRequest{URL: "http://storage.test/put/" + *in.Key}, nil
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return &v4.PresignedHTTPRequest{URL: "http://storage.test/get/" + *in.Key}, nil
	}
}

func TestPresignUpload_KeyAndURL(t *testing.T) {
	stubPresignPipeline(t)
	svc := newAvatarService()

	key, url, err := svc.PresignUpload(context.Background())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "avatars/"), "key %q must be date-bucketed under avatars/", key)
	assert.Equal(t, "http://storage.test/put/"+key, url)

	parts := strings.Split(key, "/")
	suffix := parts[len(parts)-1]
	assert.Len(t, suffix, 32, "key suffix must be 16 random bytes hex-encoded")
	assert.NotContains(t, suffix, "-")
}

func TestPresignUpload_KeysAreUnique(t *testing.T) {
	stubPresignPipeline(t)
	svc := newAvatarService()

	k1, _, err := svc.PresignUpload(context.Background())
	require.NoError(t, err)
	k2, _, err := svc.PresignUpload(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, k1, k2, "every upload must get its own key")
}

func TestPresignDownload_UsesStoredKey(t *testing.T) {
	stubPresignPipeline(t)
	svc := newAvatarService()

	url, err := svc.PresignDownload(context.Background(), "avatars/2026/1/2/abc")
	require.NoError(t, err)
	assert.Equal(t, "http://storage.test/get/avatars/2026/1/2/abc", url)
}
