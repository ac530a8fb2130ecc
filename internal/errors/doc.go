// Package errors provides structured errors for egg-brawl.
//
// Errors carry a code, a user-facing message, an optional cause and metadata.
// They convert to and from gRPC status errors so a replica talking to a remote
// authority sees the same codes a local caller would.
//
// # Basic Usage
//
//	err := errors.InvalidParticipantf("participant %s is dead", id)
//	err := errors.MoveNotAllowed("sausage used in each of the last two rounds").
//	    WithMeta("participant_id", id)
//
// Wrapping keeps the original code:
//
//	if err := repo.Save(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to store snapshot")
//	}
//
// # Game Codes
//
//   - InvalidParticipant: unknown or dead participant used as actor or target
//   - MoveNotAllowed: the limited-use guard rejected the move
//   - MalformedSnapshot: a replica received a snapshot outside the documented shape
//
// All three are recoverable by the caller; none leaves a match partially mutated.
//
// # gRPC Integration
//
// Handlers return errors.ToGRPCError(err). Clients call errors.FromGRPCError(err);
// the original code is restored from the ErrorInfo detail, so a MoveNotAllowed
// stays distinguishable from a plain FailedPrecondition.
//
// # Validation
//
//	vb := errors.NewValidationBuilder()
//	if cfg.Engine == nil {
//	    vb.RequiredField("Engine")
//	}
//	return vb.Build()
package errors
