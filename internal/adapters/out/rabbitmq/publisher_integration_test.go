package rabbitmq_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"exportflow/internal/adapters/out/rabbitmq"
	"exportflow/internal/core/domain/model/milestone"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

type PublisherIntegrationTestSuite struct {
	suite.Suite
	container testcontainers.Container
	url       string
	publisher *rabbitmq.Publisher
}

func (suite *PublisherIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "rabbitmq:3.13-alpine",
			ExposedPorts: []string{"5672/tcp"},
			WaitingFor: wait.ForLog("Server startup complete").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	suite.Require().NoError(err)
	suite.container = container

	host, err := container.Host(ctx)
	suite.Require().NoError(err)
	port, err := container.MappedPort(ctx, "5672/tcp")
	suite.Require().NoError(err)
	suite.url = fmt.Sprintf("amqp://guest:guest@%s:%s/", host, port.Port())

	suite.publisher, err = rabbitmq.NewPublisher(suite.url, zap.NewNop())
	suite.Require().NoError(err)
}

func (suite *PublisherIntegrationTestSuite) TearDownSuite() {
	if suite.publisher != nil {
		_ = suite.publisher.Close()
	}
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *PublisherIntegrationTestSuite) TestPublish_RoutesByAction() {
	conn, err := amqp.Dial(suite.url)
	suite.Require().NoError(err)
	defer conn.Close()
	ch, err := conn.Channel()
	suite.Require().NoError(err)
	defer ch.Close()

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	suite.Require().NoError(err)
	suite.Require().NoError(ch.QueueBind(q.Name, "milestone.auto_advanced", rabbitmq.ExchangeName, false, nil))
	deliveries, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	suite.Require().NoError(err)

	e := statusEntry(suite.T())
	suite.True(suite.publisher.IsConnected())
	suite.Require().NoError(suite.publisher.Publish(context.Background(), []milestone.LogEntry{e}))

	select {
	case d := <-deliveries:
		suite.Equal("application/json", d.ContentType)
		suite.Equal(uint8(amqp.Persistent), d.DeliveryMode)
		suite.Equal(e.ID().String(), d.MessageId)

		var ev rabbitmq.Event
		suite.Require().NoError(json.Unmarshal(d.Body, &ev))
		suite.Equal(e.ID().String(), ev.ID)
		suite.Equal("in_progress", ev.ToStatus)
	case <-time.After(10 * time.Second):
		suite.Fail("no message delivered")
	}
}

func TestPublisherIntegration(t *testing.T) {
	suite.Run(t, new(PublisherIntegrationTestSuite))
}
