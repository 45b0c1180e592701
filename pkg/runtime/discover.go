package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	"go.uber.org/zap"
)

// DiscoverRuntimeARN lists agent runtimes via the AWS CLI control plane and
// returns the first one. Used when no ARN is configured or flagged.
//
// Shelling out keeps the module free of the full AWS SDK for a single
// control-plane call; the CLI also resolves credentials and region the way
// operators already have them configured.
func DiscoverRuntimeARN(ctx context.Context, logger *zap.Logger) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	cmd := exec.CommandContext(ctx, "aws", "bedrock-agentcore-control", "list-agent-runtimes", "--output", "json")

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("listing agent runtimes: %w", err)
	}

	var listing struct {
		AgentRuntimes []struct {
			AgentRuntimeARN string `json:"agentRuntimeArn"`
		} `json:"agentRuntimes"`
	}

	if err := json.Unmarshal(out, &listing); err != nil {
		return "", fmt.Errorf("parsing agent runtime listing: %w", err)
	}

	for _, rt := range listing.AgentRuntimes {
		if rt.AgentRuntimeARN != "" {
			logger.Debug("discovered runtime", zap.String("runtime_arn", rt.AgentRuntimeARN))
			return rt.AgentRuntimeARN, nil
		}
	}

	return "", fmt.Errorf("no agent runtimes found")
}
