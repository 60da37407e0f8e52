package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.in = in
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = b
	return &s3.PutObjectOutput{}, nil
}

func TestUpload(t *testing.T) {
	t.Parallel()

	fake := &fakeS3{}
	u := NewUploader(fake, "facility-prod-reports")

	loc, err := u.Upload(context.Background(), "annual-reports/2024/report.csv", []byte("a,b\n1,2\n"), "")
	require.NoError(t, err)

	assert.Equal(t, "s3://facility-prod-reports/annual-reports/2024/report.csv", loc)
	assert.Equal(t, "facility-prod-reports", aws.ToString(fake.in.Bucket))
	assert.Equal(t, "annual-reports/2024/report.csv", aws.ToString(fake.in.Key))
	assert.Equal(t, "text/csv", aws.ToString(fake.in.ContentType))
	assert.Equal(t, types.ServerSideEncryptionAes256, fake.in.ServerSideEncryption)
	assert.EqualValues(t, 8, aws.ToInt64(fake.in.ContentLength))
	assert.Equal(t, "a,b\n1,2\n", string(fake.body))
}

func TestUpload_Error(t *testing.T) {
	t.Parallel()

	u := NewUploader(&fakeS3{err: errors.New("AccessDenied")}, "bucket")
	_, err := u.Upload(context.Background(), "k", nil, "text/csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://bucket/k")
	assert.Contains(t, err.Error(), "AccessDenied")
}
