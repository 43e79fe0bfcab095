package minioevidence_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"exportflow/internal/adapters/out/minioevidence"
	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/domain/model/milestone"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const bucket = "evidence"

type InventoryIntegrationTestSuite struct {
	suite.Suite
	container testcontainers.Container
	inventory *minioevidence.Inventory
	client    *minio.Client
}

func (suite *InventoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "minio/minio:RELEASE.2024-10-13T13-34-11Z",
			ExposedPorts: []string{"9000/tcp"},
			Cmd:          []string{"server", "/data"},
			Env: map[string]string{
				"MINIO_ROOT_USER":     "minioadmin",
				"MINIO_ROOT_PASSWORD": "minioadmin",
			},
			WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	suite.Require().NoError(err)
	suite.container = container

	host, err := container.Host(ctx)
	suite.Require().NoError(err)
	port, err := container.MappedPort(ctx, "9000/tcp")
	suite.Require().NoError(err)

	suite.inventory, err = minioevidence.New(minioevidence.Options{
		Endpoint:  fmt.Sprintf("%s:%s", host, port.Port()),
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    bucket,
	})
	suite.Require().NoError(err)

	suite.client, err = minio.New(fmt.Sprintf("%s:%s", host, port.Port()), &minio.Options{
		Creds: credentialsFor("minioadmin", "minioadmin"),
	})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
}

func (suite *InventoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *InventoryIntegrationTestSuite) milestone(step milestone.StepKey) *milestone.Milestone {
	m, err := milestone.NewMilestone(kernel.NewUUID(), kernel.NewUUID(),
		milestone.Definition{Step: step, Name: string(step), Role: kernel.RoleQC, Required: true, EvidenceRequired: true},
		kernel.NewDate(2024, 2, 22), kernel.NewDate(2024, 2, 23))
	suite.Require().NoError(err)
	return m
}

func (suite *InventoryIntegrationTestSuite) put(key string) {
	body := []byte("%PDF-1.4")
	_, err := suite.client.PutObject(context.Background(), bucket, key, bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: "application/pdf"})
	suite.Require().NoError(err)
}

func (suite *InventoryIntegrationTestSuite) TestList() {
	m := suite.milestone(milestone.FinalInspection)
	other := suite.milestone(milestone.InlineInspection)

	suite.put(minioevidence.ObjectKey(m, "Inspection_Report", "aql.pdf"))
	suite.put(minioevidence.ObjectKey(m, "packing_list", "pl.pdf"))
	suite.put(minioevidence.MilestonePrefix(m) + "stray.pdf")
	suite.put(minioevidence.ObjectKey(other, "inspection_report", "inline.pdf"))

	attachments, err := suite.inventory.List(context.Background(), m)

	suite.Require().NoError(err)
	suite.Require().Len(attachments, 2)
	types := []string{attachments[0].DocumentType, attachments[1].DocumentType}
	suite.ElementsMatch([]string{"inspection_report", "packing_list"}, types)
	for _, a := range attachments {
		suite.Equal(m.ID(), a.MilestoneID)
		suite.False(a.UploadedAt.IsZero())
	}
}

func (suite *InventoryIntegrationTestSuite) TestList_Empty() {
	attachments, err := suite.inventory.List(context.Background(), suite.milestone(milestone.BookingConfirmed))

	suite.Require().NoError(err)
	suite.Empty(attachments)
}

func TestInventoryIntegration(t *testing.T) {
	suite.Run(t, new(InventoryIntegrationTestSuite))
}

func credentialsFor(user, password string) *credentials.Credentials {
	return credentials.NewStaticV4(user, password, "")
}
