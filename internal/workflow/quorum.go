package workflow

import (
	"context"
	"errors"

	commonerrors "scholarship-workflow/internal/common/errors"
	"scholarship-workflow/internal/directory"
	"scholarship-workflow/internal/models"
)

// Roster is the resolved assignment set for one scholarship. The quorum
// thresholds are the cardinalities of these sets, never a stored number.
type Roster struct {
	ScholarshipID string
	CommitteeIDs  []string
	ReviewerIDs   []string

	committee map[string]struct{}
	reviewers map[string]struct{}
}

func (r *Roster) Quorum() models.QuorumRequirement {
	return models.QuorumRequirement{
		Graders:   len(r.CommitteeIDs),
		Approvers: len(r.ReviewerIDs),
	}
}

func (r *Roster) IsCommittee(graderID string) bool {
	_, ok := r.committee[graderID]
	return ok
}

func (r *Roster) IsReviewer(approverID string) bool {
	_, ok := r.reviewers[approverID]
	return ok
}

// Resolver builds rosters from the scholarship directory.
type Resolver struct {
	directory directory.ScholarshipDirectory
}

func NewResolver(dir directory.ScholarshipDirectory) *Resolver {
	return &Resolver{directory: dir}
}

// Resolve fetches both assignment sets. An unknown scholarship or an empty
// committee or reviewer set means the workflow cannot progress, so both map
// to MISCONFIGURED_SCHOLARSHIP.
func (r *Resolver) Resolve(ctx context.Context, scholarshipID string) (*Roster, error) {
	committee, err := r.directory.AssignedCommitteeIDs(ctx, scholarshipID)
	if err != nil {
		return nil, mapDirectoryError(err, scholarshipID)
	}
	reviewers, err := r.directory.AssignedReviewerIDs(ctx, scholarshipID)
	if err != nil {
		return nil, mapDirectoryError(err, scholarshipID)
	}

	if len(committee) == 0 {
		return nil, commonerrors.NewMisconfiguredScholarship(scholarshipID, "no grading committee assigned")
	}
	if len(reviewers) == 0 {
		return nil, commonerrors.NewMisconfiguredScholarship(scholarshipID, "no reviewers assigned")
	}

	roster := &Roster{
		ScholarshipID: scholarshipID,
		CommitteeIDs:  committee,
		ReviewerIDs:   reviewers,
		committee:     make(map[string]struct{}, len(committee)),
		reviewers:     make(map[string]struct{}, len(reviewers)),
	}
	for _, id := range committee {
		roster.committee[id] = struct{}{}
	}
	for _, id := range reviewers {
		roster.reviewers[id] = struct{}{}
	}
	return roster, nil
}

func mapDirectoryError(err error, scholarshipID string) error {
	if errors.Is(err, directory.ErrScholarshipNotFound) {
		return commonerrors.NewMisconfiguredScholarship(scholarshipID, "scholarship not found")
	}
	return commonerrors.NewStorageFailed(err)
}
