package pagesource

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/knowdesk/pagekit/pkg/page"
)

// S3API is the subset of the S3 client used by FromS3.
type S3API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// maxObjectSize caps the size of a page or layout object.
const maxObjectSize = 4 << 20

// FromS3 builds a registry from objects under prefix in bucket, laid out
// like the FromFS tree (prefix + "pages/...", prefix + "layouts/..."). The
// bucket is listed once; layouts are fetched immediately and pages when
// their loader runs.
func FromS3(ctx context.Context, client S3API, bucket, prefix string) (*page.Registry, error) {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	c := &compiler{}

	layoutKeys, err := listKeys(ctx, client, bucket, prefix+layoutsDir+"/")
	if err != nil {
		return nil, fmt.Errorf("list layouts: %w", err)
	}
	for rel, key := range layoutKeys {
		src, err := getObject(ctx, client, bucket, key)
		if err != nil {
			return nil, fmt.Errorf("load layout %s: %w", key, err)
		}
		if err := c.addLayout(rel, src); err != nil {
			return nil, err
		}
	}

	pageKeys, err := listKeys(ctx, client, bucket, prefix+pagesDir+"/")
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	loaders := make(map[string]page.Loader, len(pageKeys))
	for rel, key := range pageKeys {
		key := key // per-iteration copy for the loader closure (go < 1.22 loop semantics)
		name, ext := splitPage(rel)
		if !supported(ext) {
			continue
		}
		loaders[page.Key(name, ext)] = func(ctx context.Context) (*page.Component, error) {
			src, err := getObject(ctx, client, bucket, key)
			if err != nil {
				return nil, err
			}
			return c.compile(name, ext, src)
		}
	}

	return page.NewRegistry(loaders, c.registryOptions()...), nil
}

// listKeys returns object keys under prefix, indexed by the part after it.
func listKeys(ctx context.Context, client S3API, bucket, prefix string) (map[string]string, error) {
	keys := map[string]string{}
	p := s3.NewListObjectsV2Paginator(client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	})
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range out.Contents {
			key := aws.ToString(obj.Key)
			rel := strings.TrimPrefix(key, prefix)
			if rel == "" || strings.HasSuffix(rel, "/") {
				continue
			}
			keys[rel] = key
		}
	}
	return keys, nil
}

func getObject(ctx context.Context, client S3API, bucket, key string) ([]byte, error) {
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, maxObjectSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxObjectSize {
		return nil, fmt.Errorf("object %s exceeds %d bytes", key, maxObjectSize)
	}
	return data, nil
}
