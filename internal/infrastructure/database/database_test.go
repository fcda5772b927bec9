package database

import (
	"context"
	"errors"
	"strings"
	"testing"

	appconfig "quotation_service/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

type fakeDescriber struct {
	table string
	err   error
}

func (f *fakeDescriber) DescribeTable(_ context.Context, in *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	f.table = aws.ToString(in.TableName)
	return &dynamodb.DescribeTableOutput{}, f.err
}

func TestCheckTable(t *testing.T) {
	ok := &fakeDescriber{}
	if err := CheckTable(context.Background(), ok, "quotations"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok.table != "quotations" {
		t.Fatalf("expected the quotations table to be described, got %q", ok.table)
	}

	cause := errors.New("ResourceNotFoundException")
	err := CheckTable(context.Background(), &fakeDescriber{err: cause}, "missing")
	if !errors.Is(err, cause) || !strings.Contains(err.Error(), `"missing"`) {
		t.Fatalf("expected wrapped error naming the table, got %v", err)
	}
}

func TestConnectGorm_SQLite(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	cfg := appconfig.Config{
		StoreDriver: appconfig.StoreSQLite,
		SQLitePath:  "file:" + t.Name() + "?mode=memory&cache=shared",
	}

	db, err := ConnectGorm(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if !db.Migrator().HasTable("quotations") {
		t.Fatalf("expected the quotations table to be migrated")
	}
}

func TestConnectGorm_RejectsDynamo(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	_, err := ConnectGorm(context.Background(), appconfig.Config{StoreDriver: appconfig.StoreDynamoDB}, logger)
	if err == nil {
		t.Fatalf("expected an error for a non relational driver")
	}
}
