package repository

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"

	"github.com/PranavGopinath/spectra/internal/domain"
	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

// Named vectors stored per point. Every item carries both its full
// semantic embedding and its taste-space projection, so the same
// collection is queryable in either space.
const (
	vectorNameEmbedding = "embedding"
	vectorNameTaste     = "taste"
)

// QdrantConnectionConfig holds configuration for a Qdrant connection.
type QdrantConnectionConfig struct {
	Host         string
	Port         int
	Collection   string
	APIKey       string // Qdrant Cloud API key (enables TLS automatically)
	UseTLS       bool   // Explicitly enable TLS without API key
	EmbeddingDim int
	TasteDim     int
}

// apiKeyInterceptor creates a unary interceptor that adds the API key to metadata.
func apiKeyInterceptor(apiKey string) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		ctx = metadata.AppendToOutgoingContext(ctx, "api-key", apiKey)
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// QdrantRepository is the similarity index for one media type's collection.
// It satisfies the orchestrator's SimilarityIndex contract: results are
// ranked by descending similarity, with similarity mapped from the cosine
// score into [0,1] (identical direction 1.0, opposite direction 0.0).
type QdrantRepository struct {
	conn           *grpc.ClientConn
	pointsClient   pb.PointsClient
	collectClient  pb.CollectionsClient
	collectionName string
	embeddingDim   int
	tasteDim       int
}

// NewQdrantRepository creates a repository bound to one collection.
// Supports both local Qdrant (insecure) and Qdrant Cloud (TLS + API key).
func NewQdrantRepository(cfg *QdrantConnectionConfig) (*QdrantRepository, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	var opts []grpc.DialOption
	useTLS := cfg.UseTLS || cfg.APIKey != ""
	if useTLS {
		creds := credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS13})
		opts = append(opts, grpc.WithTransportCredentials(creds))
		if cfg.APIKey != "" {
			opts = append(opts, grpc.WithUnaryInterceptor(apiKeyInterceptor(cfg.APIKey)))
		}
	} else {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to qdrant: %w", err)
	}

	return &QdrantRepository{
		conn:           conn,
		pointsClient:   pb.NewPointsClient(conn),
		collectClient:  pb.NewCollectionsClient(conn),
		collectionName: cfg.Collection,
		embeddingDim:   cfg.EmbeddingDim,
		tasteDim:       cfg.TasteDim,
	}, nil
}

// Close closes the gRPC connection.
func (r *QdrantRepository) Close() error {
	return r.conn.Close()
}

// EnsureCollection creates the collection with both named vector spaces if
// it does not exist, and verifies the vector sizes if it does.
func (r *QdrantRepository) EnsureCollection(ctx context.Context) error {
	info, err := r.collectClient.Get(ctx, &pb.GetCollectionInfoRequest{
		CollectionName: r.collectionName,
	})
	if err == nil {
		return r.verifyVectorSizes(info.GetResult())
	}

	_, err = r.collectClient.Create(ctx, &pb.CreateCollection{
		CollectionName: r.collectionName,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_ParamsMap{
				ParamsMap: &pb.VectorParamsMap{
					Map: map[string]*pb.VectorParams{
						vectorNameEmbedding: {
							Size:     uint64(r.embeddingDim),
							Distance: pb.Distance_Cosine,
						},
						vectorNameTaste: {
							Size:     uint64(r.tasteDim),
							Distance: pb.Distance_Cosine,
						},
					},
				},
			},
		},
		HnswConfig: &pb.HnswConfigDiff{
			M:                 optionalUint64(16),
			EfConstruct:       optionalUint64(128),
			FullScanThreshold: optionalUint64(10000),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create collection %s: %w", r.collectionName, err)
	}

	return nil
}

func optionalUint64(v uint64) *uint64 {
	return &v
}

func (r *QdrantRepository) verifyVectorSizes(info *pb.CollectionInfo) error {
	if info == nil {
		return nil
	}
	config := info.GetConfig()
	if config == nil || config.GetParams() == nil {
		return nil
	}
	vectors := config.GetParams().GetVectorsConfig()
	if vectors == nil {
		return nil
	}
	paramsMap := vectors.GetParamsMap()
	if paramsMap == nil {
		return fmt.Errorf("collection %s has no named vectors", r.collectionName)
	}

	want := map[string]uint64{
		vectorNameEmbedding: uint64(r.embeddingDim),
		vectorNameTaste:     uint64(r.tasteDim),
	}
	for name, size := range want {
		params, ok := paramsMap.GetMap()[name]
		if !ok {
			return fmt.Errorf("collection %s is missing vector %q", r.collectionName, name)
		}
		if params.GetSize() != size {
			return fmt.Errorf("collection %s vector %q has size %d, expected %d",
				r.collectionName, name, params.GetSize(), size)
		}
	}
	return nil
}

// ItemPayload is the payload stored with each point.
type ItemPayload struct {
	ItemID      string
	Title       string
	MediaType   domain.MediaType
	Year        *int
	Description string
	ArtworkURL  string
	Metadata    domain.JSONMap
}

// Upsert inserts or updates a point carrying both named vectors.
func (r *QdrantRepository) Upsert(ctx context.Context, pointID string, embedding, tasteVector []float32, payload *ItemPayload) error {
	uid, err := uuid.Parse(pointID)
	if err != nil {
		return fmt.Errorf("invalid point ID: %w", err)
	}

	payloadMap := map[string]*pb.Value{
		"item_id":     {Kind: &pb.Value_StringValue{StringValue: payload.ItemID}},
		"title":       {Kind: &pb.Value_StringValue{StringValue: payload.Title}},
		"media_type":  {Kind: &pb.Value_StringValue{StringValue: string(payload.MediaType)}},
		"description": {Kind: &pb.Value_StringValue{StringValue: payload.Description}},
		"artwork_url": {Kind: &pb.Value_StringValue{StringValue: payload.ArtworkURL}},
		"metadata":    {Kind: &pb.Value_StringValue{StringValue: encodeMetadata(payload.Metadata)}},
	}
	if payload.Year != nil {
		payloadMap["year"] = &pb.Value{Kind: &pb.Value_IntegerValue{IntegerValue: int64(*payload.Year)}}
	}

	points := []*pb.PointStruct{
		{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Uuid{Uuid: uid.String()},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vectors{
					Vectors: &pb.NamedVectors{
						Vectors: map[string]*pb.Vector{
							vectorNameEmbedding: {Data: embedding},
							vectorNameTaste:     {Data: tasteVector},
						},
					},
				},
			},
			Payload: payloadMap,
		},
	}

	_, err = r.pointsClient.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: r.collectionName,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	return nil
}

// Search runs a nearest-neighbor query in the requested space and returns
// hits ranked by descending similarity.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - vector: query vector; length must match the space's dimensionality.
//   - space: which named vector to search against.
//   - limit: maximum number of hits.
//
// Returns:
//   - []domain.SimilarityHit: ranked results with similarity in [0,1].
//   - error: non-nil if the search fails.
func (r *QdrantRepository) Search(ctx context.Context, vector []float32, space domain.SearchSpace, limit int) ([]domain.SimilarityHit, error) {
	vectorName, err := vectorNameForSpace(space)
	if err != nil {
		return nil, err
	}

	resp, err := r.pointsClient.Search(ctx, &pb.SearchPoints{
		CollectionName: r.collectionName,
		Vector:         vector,
		VectorName:     &vectorName,
		Limit:          uint64(limit),
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search collection %s: %w", r.collectionName, err)
	}

	hits := make([]domain.SimilarityHit, 0, len(resp.Result))
	for _, scored := range resp.Result {
		hit := parsePayload(scored.Payload)
		if hit == nil {
			continue
		}
		hit.Similarity = scoreToSimilarity(scored.Score)
		hits = append(hits, *hit)
	}

	return hits, nil
}

func vectorNameForSpace(space domain.SearchSpace) (string, error) {
	switch space {
	case domain.SpaceEmbedding:
		return vectorNameEmbedding, nil
	case domain.SpaceTaste:
		return vectorNameTaste, nil
	default:
		return "", fmt.Errorf("unknown search space %q", space)
	}
}

// scoreToSimilarity maps Qdrant's cosine score s in [-1,1] to the bounded
// similarity 1 - cosine_distance/2 = (s+1)/2 in [0,1].
func scoreToSimilarity(score float32) float32 {
	sim := (score + 1) / 2
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}

func encodeMetadata(m domain.JSONMap) string {
	if len(m) == 0 {
		return "{}"
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func parsePayload(payload map[string]*pb.Value) *domain.SimilarityHit {
	if payload == nil {
		return nil
	}

	hit := &domain.SimilarityHit{}
	if v, ok := payload["item_id"]; ok {
		hit.ItemID = v.GetStringValue()
	}
	if v, ok := payload["title"]; ok {
		hit.Title = v.GetStringValue()
	}
	if v, ok := payload["media_type"]; ok {
		if mt, valid := domain.ParseMediaType(v.GetStringValue()); valid {
			hit.MediaType = mt
		}
	}
	if v, ok := payload["year"]; ok {
		if _, isInt := v.GetKind().(*pb.Value_IntegerValue); isInt {
			year := int(v.GetIntegerValue())
			hit.Year = &year
		}
	}
	if v, ok := payload["description"]; ok {
		hit.Description = v.GetStringValue()
	}
	if v, ok := payload["artwork_url"]; ok {
		hit.ArtworkURL = v.GetStringValue()
	}
	if v, ok := payload["metadata"]; ok {
		var meta domain.JSONMap
		if err := json.Unmarshal([]byte(v.GetStringValue()), &meta); err == nil {
			hit.Metadata = meta
		}
	}

	return hit
}

// Delete deletes a point by ID.
func (r *QdrantRepository) Delete(ctx context.Context, pointID string) error {
	uid, err := uuid.Parse(pointID)
	if err != nil {
		return fmt.Errorf("invalid point ID: %w", err)
	}

	_, err = r.pointsClient.Delete(ctx, &pb.DeletePoints{
		CollectionName: r.collectionName,
		Points: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Points{
				Points: &pb.PointsIdsList{
					Ids: []*pb.PointId{
						{PointIdOptions: &pb.PointId_Uuid{Uuid: uid.String()}},
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete point: %w", err)
	}

	return nil
}
