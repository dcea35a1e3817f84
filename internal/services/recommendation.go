package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/IsaacCheng9/student-network-backend/internal/logger"
	"github.com/IsaacCheng9/student-network-backend/internal/repos"
	"github.com/IsaacCheng9/student-network-backend/internal/types"
)

// Mutual-connection weights. The close-friend check is between the
// requesting user and the shared connection, not the candidate:
// both close-friend directions held is "super close", the forward
// direction alone is "close", anything else is a plain connection.
const (
	weightSuperCloseConnection = 50
	weightCloseConnection      = 20
	weightPlainConnection      = 10
	weightSharedHobby          = 5
	weightSharedInterest       = 5
	weightSharedDegree         = 5
)

const maxRecommendations = 5
const maxJustificationNames = 3

type Recommendation struct {
	Username      string `json:"username"`
	Justification string `json:"justification"`
	Score         int    `json:"score"`
}

// componentScores is the fixed per-candidate score record; one field
// per similarity category.
type componentScores struct {
	Connection int
	Hobby      int
	Interest   int
	Degree     int
}

func (cs componentScores) total() int {
	return cs.Connection + cs.Hobby + cs.Interest + cs.Degree
}

type candidate struct {
	scores          componentScores
	commonConns     []string
	sharedHobbies   []string
	sharedInterests []string
	degreeName      string
}

type RecommendationService interface {
	Recommend(ctx context.Context, username string) ([]*Recommendation, error)
}

type recommendationService struct {
	db             *gorm.DB
	log            *logger.Logger
	connectionRepo repos.ConnectionRepo
	profileRepo    repos.ProfileRepo
}

func NewRecommendationService(
	db *gorm.DB,
	log *logger.Logger,
	connectionRepo repos.ConnectionRepo,
	profileRepo repos.ProfileRepo,
) RecommendationService {
	serviceLog := log.With("service", "RecommendationService")
	return &recommendationService{
		db:             db,
		log:            serviceLog,
		connectionRepo: connectionRepo,
		profileRepo:    profileRepo,
	}
}

// Recommend scores every candidate reachable through the user's
// network or attributes and returns the top five with a rendered
// justification. A user with nothing to match on gets an empty list,
// not an error.
func (rs *recommendationService) Recommend(ctx context.Context, username string) ([]*Recommendation, error) {
	excluded, err := rs.exclusionSet(ctx, username)
	if err != nil {
		return nil, err
	}

	// The four component scans are independent reads; run them
	// concurrently and merge their partial candidate maps after.
	var (
		connPart     map[string]*candidate
		hobbyPart    map[string]*candidate
		interestPart map[string]*candidate
		degreePart   map[string]*candidate
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		connPart, err = rs.scoreMutualConnections(gctx, username, excluded)
		return err
	})
	g.Go(func() error {
		var err error
		hobbyPart, err = rs.scoreSharedHobbies(gctx, username, excluded)
		return err
	})
	g.Go(func() error {
		var err error
		interestPart, err = rs.scoreSharedInterests(gctx, username, excluded)
		return err
	})
	g.Go(func() error {
		var err error
		degreePart, err = rs.scoreSharedDegree(gctx, username, excluded)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	candidates := mergeCandidates(connPart, hobbyPart, interestPart, degreePart)
	if len(candidates) == 0 {
		return []*Recommendation{}, nil
	}

	closeFriends, err := rs.connectionRepo.CloseFriendsOf(ctx, nil, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list close friends: %w", err)
	}
	closeFriendSet := toSet(closeFriends)

	names := make([]string, 0, len(candidates))
	for name := range candidates {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		si := candidates[names[i]].scores.total()
		sj := candidates[names[j]].scores.total()
		if si != sj {
			return si > sj
		}
		return names[i] < names[j]
	})
	if len(names) > maxRecommendations {
		names = names[:maxRecommendations]
	}

	out := make([]*Recommendation, 0, len(names))
	for _, name := range names {
		cand := candidates[name]
		out = append(out, &Recommendation{
			Username:      name,
			Justification: renderJustification(cand, closeFriendSet),
			Score:         cand.scores.total(),
		})
	}
	return out, nil
}

// exclusionSet is the user plus everyone the user has an outgoing
// request or block against.
func (rs *recommendationService) exclusionSet(ctx context.Context, username string) (map[string]bool, error) {
	pending, err := rs.connectionRepo.PendingOrBlocked(ctx, nil, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending/blocked: %w", err)
	}
	excluded := toSet(pending)
	excluded[username] = true
	return excluded, nil
}

func (rs *recommendationService) scoreMutualConnections(ctx context.Context, username string, excluded map[string]bool) (map[string]*candidate, error) {
	direct, err := rs.connectionRepo.ConnectionsOf(ctx, nil, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}

	part := make(map[string]*candidate)
	for _, shared := range direct {
		weight, err := rs.connectionWeight(ctx, username, shared)
		if err != nil {
			return nil, err
		}

		theirConns, err := rs.connectionRepo.ConnectionsOf(ctx, nil, shared)
		if err != nil {
			return nil, fmt.Errorf("failed to list connections of %s: %w", shared, err)
		}
		for _, mutual := range theirConns {
			if mutual == username || excluded[mutual] {
				continue
			}
			cand := getCandidate(part, mutual)
			cand.scores.Connection += weight
			cand.commonConns = append(cand.commonConns, shared)
		}
	}
	return part, nil
}

func (rs *recommendationService) connectionWeight(ctx context.Context, username, shared string) (int, error) {
	forward, err := rs.connectionRepo.IsCloseFriend(ctx, nil, username, shared)
	if err != nil {
		return 0, fmt.Errorf("failed to check close friend: %w", err)
	}
	if !forward {
		return weightPlainConnection, nil
	}
	reverse, err := rs.connectionRepo.IsCloseFriend(ctx, nil, shared, username)
	if err != nil {
		return 0, fmt.Errorf("failed to check close friend: %w", err)
	}
	if reverse {
		return weightSuperCloseConnection, nil
	}
	return weightCloseConnection, nil
}

func (rs *recommendationService) scoreSharedHobbies(ctx context.Context, username string, excluded map[string]bool) (map[string]*candidate, error) {
	hobbies, err := rs.profileRepo.HobbiesOf(ctx, nil, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list hobbies: %w", err)
	}

	part := make(map[string]*candidate)
	for _, hobby := range hobbies {
		others, err := rs.profileRepo.UsersWithHobby(ctx, nil, hobby)
		if err != nil {
			return nil, fmt.Errorf("failed to find users with hobby: %w", err)
		}
		for _, other := range others {
			if excluded[other] {
				continue
			}
			cand := getCandidate(part, other)
			cand.scores.Hobby += weightSharedHobby
			cand.sharedHobbies = append(cand.sharedHobbies, hobby)
		}
	}
	return part, nil
}

func (rs *recommendationService) scoreSharedInterests(ctx context.Context, username string, excluded map[string]bool) (map[string]*candidate, error) {
	interests, err := rs.profileRepo.InterestsOf(ctx, nil, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list interests: %w", err)
	}

	part := make(map[string]*candidate)
	for _, interest := range interests {
		others, err := rs.profileRepo.UsersWithInterest(ctx, nil, interest)
		if err != nil {
			return nil, fmt.Errorf("failed to find users with interest: %w", err)
		}
		for _, other := range others {
			if excluded[other] {
				continue
			}
			cand := getCandidate(part, other)
			cand.scores.Interest += weightSharedInterest
			cand.sharedInterests = append(cand.sharedInterests, interest)
		}
	}
	return part, nil
}

func (rs *recommendationService) scoreSharedDegree(ctx context.Context, username string, excluded map[string]bool) (map[string]*candidate, error) {
	degreeID, degreeName, err := rs.profileRepo.DegreeOf(ctx, nil, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load degree: %w", err)
	}
	part := make(map[string]*candidate)
	if degreeID == types.DegreeUndeclared {
		return part, nil
	}

	others, err := rs.profileRepo.UsersWithDegree(ctx, nil, degreeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find users with degree: %w", err)
	}
	for _, other := range others {
		if excluded[other] {
			continue
		}
		cand := getCandidate(part, other)
		cand.scores.Degree += weightSharedDegree
		cand.degreeName = degreeName
	}
	return part, nil
}

func getCandidate(part map[string]*candidate, name string) *candidate {
	cand, ok := part[name]
	if !ok {
		cand = &candidate{}
		part[name] = cand
	}
	return cand
}

func mergeCandidates(parts ...map[string]*candidate) map[string]*candidate {
	merged := make(map[string]*candidate)
	for _, part := range parts {
		for name, cand := range part {
			existing, ok := merged[name]
			if !ok {
				merged[name] = cand
				continue
			}
			existing.scores.Connection += cand.scores.Connection
			existing.scores.Hobby += cand.scores.Hobby
			existing.scores.Interest += cand.scores.Interest
			existing.scores.Degree += cand.scores.Degree
			existing.commonConns = append(existing.commonConns, cand.commonConns...)
			existing.sharedHobbies = append(existing.sharedHobbies, cand.sharedHobbies...)
			existing.sharedInterests = append(existing.sharedInterests, cand.sharedInterests...)
			if existing.degreeName == "" {
				existing.degreeName = cand.degreeName
			}
		}
	}
	return merged
}

// renderJustification picks the dominant category (max component,
// ties broken connections > hobbies > interests > degree) and renders
// its template.
func renderJustification(cand *candidate, closeFriends map[string]bool) string {
	scores := cand.scores
	dominant := "connections"
	best := scores.Connection
	if scores.Hobby > best {
		dominant = "hobbies"
		best = scores.Hobby
	}
	if scores.Interest > best {
		dominant = "interests"
		best = scores.Interest
	}
	if scores.Degree > best {
		dominant = "degree"
		best = scores.Degree
	}

	switch dominant {
	case "connections":
		names := orderCommonConnections(cand.commonConns, closeFriends)
		return fmt.Sprintf("%d mutual connections including %s",
			len(names), joinBold(capNames(names)))
	case "hobbies":
		return "You both enjoy hobbies including " + joinBold(capNames(dedupe(cand.sharedHobbies))) + "."
	case "interests":
		return "You are both interested in " + joinBold(capNames(dedupe(cand.sharedInterests))) + "."
	default:
		return fmt.Sprintf("You both study **%s**", cand.degreeName)
	}
}

// orderCommonConnections lists the user's close friends first, then
// the rest, each band sorted by username for stable output.
func orderCommonConnections(commonConns []string, closeFriends map[string]bool) []string {
	unique := dedupe(commonConns)
	var closest, rest []string
	for _, name := range unique {
		if closeFriends[name] {
			closest = append(closest, name)
		} else {
			rest = append(rest, name)
		}
	}
	sort.Strings(closest)
	sort.Strings(rest)
	return append(closest, rest...)
}

func capNames(names []string) []string {
	if len(names) > maxJustificationNames {
		return names[:maxJustificationNames]
	}
	return names
}

// joinBold renders "**A**", "**A** and **B**", or
// "**A**, **B** and **C**".
func joinBold(names []string) string {
	bold := make([]string, 0, len(names))
	for _, n := range names {
		bold = append(bold, "**"+n+"**")
	}
	switch len(bold) {
	case 0:
		return ""
	case 1:
		return bold[0]
	case 2:
		return bold[0] + " and " + bold[1]
	default:
		return strings.Join(bold[:len(bold)-1], ", ") + " and " + bold[len(bold)-1]
	}
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
