package config_test

import (
	"testing"
	"time"

	"github.com/JaimeStill/foundry/internal/config"
)

func validAWS() config.AWSConfig {
	return config.AWSConfig{
		VPCID:           "vpc-123",
		SubnetIDs:       []string{"subnet-1"},
		SecurityGroupID: "sg-123",
	}
}

func validWorkflow() config.WorkflowConfig {
	return config.WorkflowConfig{
		AgentRoleARN:         "arn:aws:iam::123456789012:role/agent",
		KnowledgeBaseRoleARN: "arn:aws:iam::123456789012:role/kb",
		EmbeddingModelARN:    "arn:aws:bedrock:us-east-1::foundation-model/amazon.titan-embed-text-v1",
		ActionFunctionARN:    "arn:aws:lambda:us-east-1:123456789012:function:actions",
	}
}

func TestServerConfigDefaults(t *testing.T) {
	cfg := config.ServerConfig{}

	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("unexpected addr %s", cfg.Addr())
	}
}

func TestServerConfigEnvOverride(t *testing.T) {
	t.Setenv(config.EnvServerPort, "9090")

	cfg := config.ServerConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if cfg.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Port)
	}
}

func TestServerConfigInvalidPort(t *testing.T) {
	cfg := config.ServerConfig{Port: 99999}

	if err := cfg.Finalize(); err == nil {
		t.Fatal("expected invalid port error")
	}
}

func TestServerConfigMerge(t *testing.T) {
	base := config.ServerConfig{Host: "0.0.0.0", Port: 8080}
	overlay := config.ServerConfig{Port: 8443}

	base.Merge(&overlay)

	if base.Port != 8443 {
		t.Errorf("expected merged port 8443, got %d", base.Port)
	}
	if base.Host != "0.0.0.0" {
		t.Errorf("expected host preserved, got %s", base.Host)
	}
}

func TestAWSConfigDefaults(t *testing.T) {
	cfg := validAWS()

	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if cfg.Region != "us-east-1" {
		t.Errorf("expected default region, got %s", cfg.Region)
	}
	if cfg.ServiceName != "com.amazonaws.us-east-1.aoss" {
		t.Errorf("unexpected service name %s", cfg.ServiceName)
	}
}

func TestAWSConfigServiceNameTracksEnvRegion(t *testing.T) {
	t.Setenv(config.EnvAWSRegion, "eu-west-1")

	cfg := validAWS()
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if cfg.ServiceName != "com.amazonaws.eu-west-1.aoss" {
		t.Errorf("unexpected service name %s", cfg.ServiceName)
	}
}

func TestAWSConfigExplicitServiceNamePreserved(t *testing.T) {
	t.Setenv(config.EnvAWSRegion, "eu-west-1")

	cfg := validAWS()
	cfg.ServiceName = "com.amazonaws.custom.aoss"
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if cfg.ServiceName != "com.amazonaws.custom.aoss" {
		t.Errorf("unexpected service name %s", cfg.ServiceName)
	}
}

func TestAWSConfigRequiresNetwork(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.AWSConfig
	}{
		{"missing vpc", config.AWSConfig{SubnetIDs: []string{"subnet-1"}, SecurityGroupID: "sg-123"}},
		{"missing subnets", config.AWSConfig{VPCID: "vpc-123", SecurityGroupID: "sg-123"}},
		{"missing security group", config.AWSConfig{VPCID: "vpc-123", SubnetIDs: []string{"subnet-1"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Finalize(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestAWSConfigSubnetEnvList(t *testing.T) {
	t.Setenv(config.EnvAWSSubnetIDs, "subnet-1, subnet-2 ,subnet-3")

	cfg := validAWS()
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if len(cfg.SubnetIDs) != 3 {
		t.Fatalf("expected 3 subnets, got %d", len(cfg.SubnetIDs))
	}
	if cfg.SubnetIDs[1] != "subnet-2" {
		t.Errorf("expected trimmed subnet-2, got %q", cfg.SubnetIDs[1])
	}
}

func TestWorkflowConfigDefaults(t *testing.T) {
	cfg := validWorkflow()

	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	options, err := cfg.Options()
	if err != nil {
		t.Fatalf("Options: %v", err)
	}

	if options.InitialDelay != time.Minute {
		t.Errorf("expected 1m initial delay, got %s", options.InitialDelay)
	}
	if options.PollInterval != time.Minute {
		t.Errorf("expected 1m poll interval, got %s", options.PollInterval)
	}
	if options.Deadline != 30*time.Minute {
		t.Errorf("expected 30m deadline, got %s", options.Deadline)
	}
	if options.ActionGroupSchema == "" {
		t.Error("expected default action schema")
	}
}

func TestWorkflowConfigRequiresARNs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.WorkflowConfig)
	}{
		{"missing agent role", func(c *config.WorkflowConfig) { c.AgentRoleARN = "" }},
		{"missing kb role", func(c *config.WorkflowConfig) { c.KnowledgeBaseRoleARN = "" }},
		{"missing embedding model", func(c *config.WorkflowConfig) { c.EmbeddingModelARN = "" }},
		{"missing action function", func(c *config.WorkflowConfig) { c.ActionFunctionARN = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validWorkflow()
			tt.mutate(&cfg)

			if err := cfg.Finalize(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestWorkflowConfigInvalidDuration(t *testing.T) {
	cfg := validWorkflow()
	cfg.PollInterval = "sixty seconds"

	if err := cfg.Finalize(); err == nil {
		t.Fatal("expected invalid poll_interval error")
	}
}

func TestWorkflowConfigOptionsInvalidDuration(t *testing.T) {
	// Options is callable without Finalize; a bad duration must surface
	// rather than silently becoming zero.
	cfg := validWorkflow()
	cfg.InitialDelay = "1m"
	cfg.PollInterval = "1m"
	cfg.Deadline = "half an hour"

	if _, err := cfg.Options(); err == nil {
		t.Fatal("expected invalid deadline error")
	}
}

func TestWorkflowConfigMerge(t *testing.T) {
	base := validWorkflow()
	overlay := config.WorkflowConfig{Deadline: "45m"}

	base.Merge(&overlay)

	if base.Deadline != "45m" {
		t.Errorf("expected merged deadline, got %s", base.Deadline)
	}
	if base.AgentRoleARN == "" {
		t.Error("expected base fields preserved")
	}
}
