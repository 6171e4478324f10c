package publish_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/nDmitry/iainsufeed/internal/publish"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockS3 struct {
	MockPutObjectFunc func(ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error)
}

func (m *MockS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	return m.MockPutObjectFunc(ctx, in)
}

func TestPut(t *testing.T) {
	var got *s3.PutObjectInput
	var body []byte

	client := &MockS3{
		MockPutObjectFunc: func(_ context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
			got = in

			var err error
			body, err = io.ReadAll(in.Body)

			return &s3.PutObjectOutput{}, err
		},
	}

	publisher := publish.NewS3WithClient(client, "feeds")

	err := publisher.Put(context.Background(), "iainsu/feed.xml", []byte("<rss/>"), publish.ContentTypeRSS)
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, "feeds", aws.ToString(got.Bucket))
	assert.Equal(t, "iainsu/feed.xml", aws.ToString(got.Key))
	assert.Equal(t, publish.ContentTypeRSS, aws.ToString(got.ContentType))
	assert.Equal(t, "public, max-age=300", aws.ToString(got.CacheControl))
	assert.Equal(t, "<rss/>", string(body))
}

func TestPutWithoutContentType(t *testing.T) {
	client := &MockS3{
		MockPutObjectFunc: func(_ context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
			assert.Nil(t, in.ContentType)
			return &s3.PutObjectOutput{}, nil
		},
	}

	require.NoError(t, publish.NewS3WithClient(client, "feeds").Put(context.Background(), "feed.json", []byte("{}"), ""))
}

func TestPutError(t *testing.T) {
	denied := errors.New("access denied")

	client := &MockS3{
		MockPutObjectFunc: func(context.Context, *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
			return nil, denied
		},
	}

	err := publish.NewS3WithClient(client, "feeds").Put(context.Background(), "feed.xml", nil, publish.ContentTypeRSS)

	assert.ErrorIs(t, err, denied)
	assert.Contains(t, err.Error(), "s3://feeds/feed.xml")
}
