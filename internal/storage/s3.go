package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/OFFIS-RIT/actorlink/internal/util"
	"github.com/OFFIS-RIT/actorlink/pkg/common"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const snapshotPrefix = "movies/"

func NewS3Client(ctx context.Context) (*s3.Client, error) {
	region := util.GetEnvString("AWS_REGION", "us-east-1")
	endpoint := util.GetEnv("AWS_ENDPOINT")
	accessKey := util.GetEnv("AWS_ACCESS_KEY")
	secretKey := util.GetEnv("AWS_SECRET_KEY")

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKey,
			secretKey,
			"",
		)),
	}
	if endpoint != "" {
		opts = append(opts, config.WithBaseEndpoint(endpoint))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
	return client, nil
}

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// SnapshotArchive keeps one JSON snapshot per ingested movie in a bucket,
// keyed movies/<tmdb_id>.json. Snapshots can rebuild a relation store
// without calling the catalog again.
type SnapshotArchive struct {
	client s3API
	bucket string
}

func NewSnapshotArchive(client s3API, bucket string) *SnapshotArchive {
	return &SnapshotArchive{client: client, bucket: bucket}
}

func snapshotKey(tmdbID int64) string {
	return snapshotPrefix + strconv.FormatInt(tmdbID, 10) + ".json"
}

func (a *SnapshotArchive) PutSnapshot(ctx context.Context, movie common.MovieCredits) error {
	body, err := json.Marshal(movie)
	if err != nil {
		return err
	}
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(snapshotKey(movie.Movie.TMDBID)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload snapshot %d to S3: %w", movie.Movie.TMDBID, err)
	}
	return nil
}

func (a *SnapshotArchive) GetSnapshot(ctx context.Context, tmdbID int64) (common.MovieCredits, error) {
	result, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(snapshotKey(tmdbID)),
	})
	if err != nil {
		return common.MovieCredits{}, fmt.Errorf("failed to get snapshot %d from S3: %w", tmdbID, err)
	}
	defer result.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, result.Body); err != nil {
		return common.MovieCredits{}, fmt.Errorf("failed to read snapshot %d: %w", tmdbID, err)
	}
	var movie common.MovieCredits
	if err := json.Unmarshal(buf.Bytes(), &movie); err != nil {
		return common.MovieCredits{}, fmt.Errorf("failed to decode snapshot %d: %w", tmdbID, err)
	}
	return movie, nil
}

// ListSnapshots returns the catalog IDs of all archived snapshots.
func (a *SnapshotArchive) ListSnapshots(ctx context.Context) ([]int64, error) {
	var ids []int64
	listInput := &s3.ListObjectsV2Input{
		Bucket: aws.String(a.bucket),
		Prefix: aws.String(snapshotPrefix),
	}

	for {
		listOutput, err := a.client.ListObjectsV2(ctx, listInput)
		if err != nil {
			return nil, fmt.Errorf("failed to list snapshots: %w", err)
		}

		for _, obj := range listOutput.Contents {
			if obj.Key == nil {
				continue
			}
			id, err := parseSnapshotKey(*obj.Key)
			if err != nil {
				continue
			}
			ids = append(ids, id)
		}

		if listOutput.IsTruncated != nil && *listOutput.IsTruncated {
			listInput.ContinuationToken = listOutput.NextContinuationToken
		} else {
			break
		}
	}

	return ids, nil
}

func parseSnapshotKey(key string) (int64, error) {
	if !strings.HasPrefix(key, snapshotPrefix) || path.Ext(key) != ".json" {
		return 0, errors.New("not a snapshot key")
	}
	return strconv.ParseInt(strings.TrimSuffix(strings.TrimPrefix(key, snapshotPrefix), ".json"), 10, 64)
}
