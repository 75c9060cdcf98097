package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/JaimeStill/foundry/internal/search"
)

const (
	EnvAWSRegion          = "FOUNDRY_AWS_REGION"
	EnvAWSVPCID           = "FOUNDRY_AWS_VPC_ID"
	EnvAWSSubnetIDs       = "FOUNDRY_AWS_SUBNET_IDS"
	EnvAWSSecurityGroupID = "FOUNDRY_AWS_SECURITY_GROUP_ID"
	EnvAWSServiceName     = "FOUNDRY_AWS_SERVICE_NAME"
)

// AWSConfig holds the region and the network identifiers collection
// endpoints are provisioned into.
type AWSConfig struct {
	Region          string   `toml:"region"`
	VPCID           string   `toml:"vpc_id"`
	SubnetIDs       []string `toml:"subnet_ids"`
	SecurityGroupID string   `toml:"security_group_id"`
	ServiceName     string   `toml:"service_name"`
}

// Network returns the collection provisioning network identifiers.
func (c *AWSConfig) Network() search.Network {
	return search.Network{
		VPCID:           c.VPCID,
		SubnetIDs:       c.SubnetIDs,
		SecurityGroupID: c.SecurityGroupID,
		ServiceName:     c.ServiceName,
	}
}

// Finalize applies defaults, environment variable overrides, and validation.
// The service name default derives from the region after env overrides so an
// environment-supplied region yields the matching aoss endpoint name.
func (c *AWSConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if c.ServiceName == "" {
		c.ServiceName = fmt.Sprintf("com.amazonaws.%s.aoss", c.Region)
	}

	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *AWSConfig) Merge(overlay *AWSConfig) {
	if overlay.Region != "" {
		c.Region = overlay.Region
	}
	if overlay.VPCID != "" {
		c.VPCID = overlay.VPCID
	}
	if len(overlay.SubnetIDs) > 0 {
		c.SubnetIDs = overlay.SubnetIDs
	}
	if overlay.SecurityGroupID != "" {
		c.SecurityGroupID = overlay.SecurityGroupID
	}
	if overlay.ServiceName != "" {
		c.ServiceName = overlay.ServiceName
	}
}

func (c *AWSConfig) loadDefaults() {
	if c.Region == "" {
		c.Region = "us-east-1"
	}
}

func (c *AWSConfig) loadEnv() {
	if v := os.Getenv(EnvAWSRegion); v != "" {
		c.Region = v
	}
	if v := os.Getenv(EnvAWSVPCID); v != "" {
		c.VPCID = v
	}
	if v := os.Getenv(EnvAWSSubnetIDs); v != "" {
		c.SubnetIDs = splitList(v)
	}
	if v := os.Getenv(EnvAWSSecurityGroupID); v != "" {
		c.SecurityGroupID = v
	}
	if v := os.Getenv(EnvAWSServiceName); v != "" {
		c.ServiceName = v
	}
}

func (c *AWSConfig) validate() error {
	if c.VPCID == "" {
		return fmt.Errorf("vpc_id required")
	}
	if len(c.SubnetIDs) == 0 {
		return fmt.Errorf("subnet_ids required")
	}
	if c.SecurityGroupID == "" {
		return fmt.Errorf("security_group_id required")
	}
	return nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	list := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			list = append(list, trimmed)
		}
	}
	return list
}
