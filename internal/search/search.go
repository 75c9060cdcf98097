// Package search provides a typed façade over the OpenSearch Serverless
// service for vector search collection provisioning: encryption, network,
// and data access policies, collection creation, and status lookup.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	oss "github.com/aws/aws-sdk-go-v2/service/opensearchserverless"
	osstypes "github.com/aws/aws-sdk-go-v2/service/opensearchserverless/types"

	"github.com/JaimeStill/foundry/workflow"
)

// CollectionAPI is the subset of the OpenSearch Serverless client the
// façade uses. Satisfied by *opensearchserverless.Client.
type CollectionAPI interface {
	CreateSecurityPolicy(ctx context.Context, params *oss.CreateSecurityPolicyInput, optFns ...func(*oss.Options)) (*oss.CreateSecurityPolicyOutput, error)
	CreateVpcEndpoint(ctx context.Context, params *oss.CreateVpcEndpointInput, optFns ...func(*oss.Options)) (*oss.CreateVpcEndpointOutput, error)
	CreateAccessPolicy(ctx context.Context, params *oss.CreateAccessPolicyInput, optFns ...func(*oss.Options)) (*oss.CreateAccessPolicyOutput, error)
	CreateCollection(ctx context.Context, params *oss.CreateCollectionInput, optFns ...func(*oss.Options)) (*oss.CreateCollectionOutput, error)
	BatchGetCollection(ctx context.Context, params *oss.BatchGetCollectionInput, optFns ...func(*oss.Options)) (*oss.BatchGetCollectionOutput, error)
}

// EndpointAPI is the subset of the EC2 client used to recover an existing
// VPC endpoint after a creation conflict. Satisfied by *ec2.Client.
type EndpointAPI interface {
	DescribeVpcEndpoints(ctx context.Context, params *ec2.DescribeVpcEndpointsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeVpcEndpointsOutput, error)
}

// Network holds the identifiers required by collection network policy
// provisioning.
type Network struct {
	VPCID           string
	SubnetIDs       []string
	SecurityGroupID string
	ServiceName     string
}

// Collection describes a search collection's identity and lifecycle status.
type Collection struct {
	Name     string
	ARN      string
	Status   string
	Endpoint string
}

// System defines the collection provisioning contract.
type System interface {
	// CreateEncryptionPolicy creates the collection's encryption policy.
	CreateEncryptionPolicy(ctx context.Context, collection string) error
	// EnsureVpcEndpoint creates the collection's network endpoint, reusing
	// an existing endpoint for the VPC when creation reports a conflict.
	EnsureVpcEndpoint(ctx context.Context, collection string) (string, error)
	// CreateDataAccessPolicy creates the collection's data access policy.
	CreateDataAccessPolicy(ctx context.Context, collection string) error
	// CreateCollection creates the vector search collection and returns its ARN.
	CreateCollection(ctx context.Context, collection string) (string, error)
	// GetCollection returns the collection's current status. A single
	// lookup; convergence polling belongs to the caller.
	GetCollection(ctx context.Context, collection string) (*Collection, error)
}

type system struct {
	collections CollectionAPI
	endpoints   EndpointAPI
	network     Network
	logger      *slog.Logger
}

// New creates a search system over the given service clients.
func New(collections CollectionAPI, endpoints EndpointAPI, network Network, logger *slog.Logger) System {
	return &system{
		collections: collections,
		endpoints:   endpoints,
		network:     network,
		logger:      logger.With("system", "search"),
	}
}

func (s *system) CreateEncryptionPolicy(ctx context.Context, collection string) error {
	policy, err := json.Marshal(map[string]any{
		"Rules": []map[string]any{
			{
				"ResourceType": "collection",
				"Resource":     []string{"collection/" + collection},
			},
		},
		"AWSOwnedKey": true,
	})
	if err != nil {
		return fmt.Errorf("marshal encryption policy: %w", err)
	}

	_, err = s.collections.CreateSecurityPolicy(ctx, &oss.CreateSecurityPolicyInput{
		Name:   aws.String(collection + "-security-policy"),
		Policy: aws.String(string(policy)),
		Type:   osstypes.SecurityPolicyTypeEncryption,
	})
	if err != nil {
		return s.fail(ctx, "create encryption policy", err)
	}

	s.logger.InfoContext(ctx, "encryption policy created", "collection", collection)
	return nil
}

func (s *system) EnsureVpcEndpoint(ctx context.Context, collection string) (string, error) {
	out, err := s.collections.CreateVpcEndpoint(ctx, &oss.CreateVpcEndpointInput{
		Name:             aws.String(collection + "-network-policy"),
		VpcId:            aws.String(s.network.VPCID),
		SubnetIds:        s.network.SubnetIDs,
		SecurityGroupIds: []string{s.network.SecurityGroupID},
	})
	if err != nil {
		var conflict *osstypes.ConflictException
		if errors.As(err, &conflict) {
			return s.findExistingEndpoint(ctx)
		}
		return "", s.fail(ctx, "create vpc endpoint", err)
	}

	id := aws.ToString(out.CreateVpcEndpointDetail.Id)
	s.logger.InfoContext(ctx, "vpc endpoint created", "collection", collection, "endpoint", id)
	return id, nil
}

// findExistingEndpoint recovers the endpoint id when creation conflicts
// with an endpoint already provisioned for the VPC.
func (s *system) findExistingEndpoint(ctx context.Context) (string, error) {
	out, err := s.endpoints.DescribeVpcEndpoints(ctx, &ec2.DescribeVpcEndpointsInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("vpc-id"), Values: []string{s.network.VPCID}},
			{Name: aws.String("service-name"), Values: []string{s.network.ServiceName}},
		},
	})
	if err != nil {
		return "", s.fail(ctx, "describe vpc endpoints", err)
	}

	if len(out.VpcEndpoints) == 0 {
		return "", fmt.Errorf("vpc endpoint conflict, but no existing endpoint found for vpc %s", s.network.VPCID)
	}

	id := aws.ToString(out.VpcEndpoints[0].VpcEndpointId)
	s.logger.InfoContext(ctx, "reusing existing vpc endpoint", "endpoint", id)
	return id, nil
}

func (s *system) CreateDataAccessPolicy(ctx context.Context, collection string) error {
	policy, err := json.Marshal([]map[string]any{
		{
			"Rules": []map[string]any{
				{
					"ResourceType": "index",
					"Resource":     []string{"index/" + collection + "/*"},
				},
			},
			"Principal":  []string{"*"},
			"Permission": []string{"aoss:*"},
		},
	})
	if err != nil {
		return fmt.Errorf("marshal data access policy: %w", err)
	}

	_, err = s.collections.CreateAccessPolicy(ctx, &oss.CreateAccessPolicyInput{
		Name:   aws.String(collection + "-data-access-policy"),
		Policy: aws.String(string(policy)),
		Type:   osstypes.AccessPolicyTypeData,
	})
	if err != nil {
		return s.fail(ctx, "create data access policy", err)
	}

	s.logger.InfoContext(ctx, "data access policy created", "collection", collection)
	return nil
}

func (s *system) CreateCollection(ctx context.Context, collection string) (string, error) {
	out, err := s.collections.CreateCollection(ctx, &oss.CreateCollectionInput{
		Name:        aws.String(collection),
		Type:        osstypes.CollectionTypeVectorsearch,
		Description: aws.String("Vector search collection for agent knowledge base"),
	})
	if err != nil {
		return "", s.fail(ctx, "create collection", err)
	}

	arn := aws.ToString(out.CreateCollectionDetail.Arn)
	s.logger.InfoContext(ctx, "collection created", "collection", collection, "arn", arn)
	return arn, nil
}

func (s *system) GetCollection(ctx context.Context, collection string) (*Collection, error) {
	out, err := s.collections.BatchGetCollection(ctx, &oss.BatchGetCollectionInput{
		Names: []string{collection},
	})
	if err != nil {
		return nil, s.fail(ctx, "get collection", err)
	}

	if len(out.CollectionDetails) == 0 {
		return nil, &workflow.NotFoundError{Resource: "collection", ID: collection}
	}

	detail := out.CollectionDetails[0]
	return &Collection{
		Name:     aws.ToString(detail.Name),
		ARN:      aws.ToString(detail.Arn),
		Status:   string(detail.Status),
		Endpoint: aws.ToString(detail.CollectionEndpoint),
	}, nil
}
