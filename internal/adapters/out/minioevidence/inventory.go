// Package minioevidence lists milestone attachments stored in an S3
// compatible bucket. Files live under
// orders/<order id>/milestones/<step>/<document type>/<file name>.
package minioevidence

import (
	"context"
	"fmt"
	"strings"

	"exportflow/internal/core/domain/model/milestone"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Options configure the MinIO client.
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Inventory implements ports.EvidenceInventory over a bucket listing.
type Inventory struct {
	client *minio.Client
	bucket string
}

// New connects to the endpoint. It does not check that the bucket exists.
func New(opts Options) (*Inventory, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return NewInventory(client, opts.Bucket), nil
}

// NewInventory uses an existing client.
func NewInventory(client *minio.Client, bucket string) *Inventory {
	return &Inventory{client: client, bucket: bucket}
}

// MilestonePrefix is the key prefix holding m's attachments.
func MilestonePrefix(m *milestone.Milestone) string {
	return fmt.Sprintf("orders/%s/milestones/%s/", m.OrderID(), m.Step())
}

// ObjectKey is where an attachment of the given document type is stored.
func ObjectKey(m *milestone.Milestone, documentType, name string) string {
	return MilestonePrefix(m) + strings.ToLower(strings.TrimSpace(documentType)) + "/" + name
}

// List returns every object below the milestone prefix. Objects directly
// under the prefix without a document type folder are ignored.
func (i *Inventory) List(ctx context.Context, m *milestone.Milestone) ([]milestone.Attachment, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	prefix := MilestonePrefix(m)
	objects := i.client.ListObjects(ctx, i.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	attachments := make([]milestone.Attachment, 0)
	for obj := range objects {
		if obj.Err != nil {
			return nil, fmt.Errorf("list %s: %w", prefix, obj.Err)
		}

		docType, name, ok := splitKey(strings.TrimPrefix(obj.Key, prefix))
		if !ok {
			continue
		}
		a, err := milestone.NewAttachment(m.ID(), docType, name, obj.LastModified.UTC())
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, a)
	}
	return attachments, nil
}

// splitKey splits "<type>/<name>"; the name may contain further slashes.
func splitKey(rel string) (docType, name string, ok bool) {
	docType, name, found := strings.Cut(rel, "/")
	if !found || docType == "" || name == "" || strings.HasSuffix(name, "/") {
		return "", "", false
	}
	return docType, name, true
}
