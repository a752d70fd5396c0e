package main

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"studyroom-be/internal/config"
	"studyroom-be/internal/entity"
	"studyroom-be/internal/pkg/serverutils"
	"studyroom-be/internal/repository/unitofwork"
	"studyroom-be/pkg/database"

	"github.com/google/uuid"
)

// demoDocuments are uploaded oldest first, so "Lecture 7" is the newest.
var demoDocuments = []struct {
	title   string
	summary string
	chunks  []string
}{
	{"Lecture 1: Cell Structure", "Organelles and membranes of eukaryotic cells.", []string{
		"Eukaryotic cells keep their DNA inside a nucleus surrounded by a double membrane.",
		"Mitochondria produce ATP through oxidative phosphorylation.",
		"The endoplasmic reticulum folds and transports proteins.",
	}},
	{"Lecture 2: Membrane Transport", "", []string{
		"Diffusion moves molecules down their concentration gradient without energy.",
		"Osmosis is the diffusion of water across a semi-permeable membrane.",
		"Active transport uses ATP to move ions against their gradient.",
		"The sodium-potassium pump moves three sodium ions out for two potassium ions in.",
	}},
	{"Lecture 3: Enzymes", "How enzymes lower activation energy and how they are regulated.", []string{
		"Enzymes are biological catalysts that lower the activation energy of reactions.",
		"Competitive inhibitors bind the active site; non-competitive inhibitors bind elsewhere.",
	}},
	{"Lecture 4: Photosynthesis", "", []string{
		"Light-dependent reactions in the thylakoid produce ATP and NADPH.",
		"The Calvin cycle fixes carbon dioxide into sugars in the stroma.",
		"Photorespiration wastes energy when RuBisCO binds oxygen instead of CO2.",
	}},
	{"Lecture 5: Cellular Respiration", "Glycolysis, the Krebs cycle and the electron transport chain.", []string{
		"Glycolysis splits glucose into two pyruvate molecules in the cytoplasm.",
		"The Krebs cycle releases carbon dioxide and loads NADH and FADH2.",
		"The electron transport chain pumps protons to drive ATP synthase.",
	}},
	{"Lecture 6: Cell Division", "", []string{
		"Mitosis produces two genetically identical daughter cells.",
		"Meiosis halves the chromosome number and shuffles alleles by crossing over.",
	}},
	{"Lecture 7: Genetics", "Mendelian inheritance and its exceptions.", []string{
		"Mendel's law of segregation: each parent passes one allele per gene.",
		"Incomplete dominance blends phenotypes, as in pink snapdragons.",
		"Sex-linked traits are carried on the X chromosome.",
	}},
}

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, database.Options{})
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)

	log.Println("Starting Study Room Seeder...")

	if err := uow.Begin(ctx); err != nil {
		log.Fatalf("Error: Failed to begin transaction: %v", err)
	}
	defer uow.Rollback()

	ownerId, memberId, adminId := uuid.New(), uuid.New(), uuid.New()

	// 1. Room and members
	room := &entity.Room{Name: "Biology 101", OwnerId: ownerId}
	if err := uow.RoomRepository().Create(ctx, room); err != nil {
		log.Fatalf("Error: Failed to create room: %v", err)
	}
	for _, m := range []*entity.RoomMember{
		{RoomId: room.Id, UserId: ownerId, Role: entity.RoomRoleOwner},
		{RoomId: room.Id, UserId: memberId, Role: entity.RoomRoleMember},
	} {
		if err := uow.RoomRepository().AddMember(ctx, m); err != nil {
			log.Fatalf("Error: Failed to add member: %v", err)
		}
	}

	// 2. Documents, one hour apart
	base := time.Now().Add(-time.Duration(len(demoDocuments)) * time.Hour)
	for i, d := range demoDocuments {
		doc := &entity.Document{
			RoomId:    room.Id,
			Title:     d.title,
			Summary:   d.summary,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		for j, text := range d.chunks {
			doc.Chunks = append(doc.Chunks, &entity.DocumentChunk{ChunkIndex: j, Content: text})
		}
		if err := uow.DocumentRepository().Create(ctx, doc); err != nil {
			log.Fatalf("Error: Failed to create document %q: %v", d.title, err)
		}
	}

	// 3. Knowledge base switch
	existing, err := uow.AiConfigRepository().FindConfigurationByKey(ctx, entity.AiConfigKeyKnowledgeBaseEnabled)
	if err != nil {
		log.Fatalf("Error: Failed to read AI configuration: %v", err)
	}
	if existing == nil {
		err = uow.AiConfigRepository().CreateConfiguration(ctx, &entity.AiConfiguration{
			Key:         entity.AiConfigKeyKnowledgeBaseEnabled,
			Value:       strconv.FormatBool(cfg.KnowledgeBase.Enabled),
			ValueType:   entity.AiConfigValueTypeBoolean,
			Description: "Use room documents as chat context",
			Category:    entity.AiConfigCategoryKnowledgeBase,
		})
		if err != nil {
			log.Fatalf("Error: Failed to seed AI configuration: %v", err)
		}
	}

	if err := uow.Commit(); err != nil {
		log.Fatalf("Error: Failed to commit: %v", err)
	}

	log.Printf("Success: Seeded room %s with %d documents.", room.Id, len(demoDocuments))

	if cfg.Auth.JwtSecret == "" {
		log.Println("JWT_SECRET is not set, skipping demo tokens")
		return
	}
	for _, u := range []struct {
		label, id, role string
	}{
		{"owner", ownerId.String(), "user"},
		{"member", memberId.String(), "user"},
		{"admin", adminId.String(), serverutils.RoleAdmin},
	} {
		tok, err := serverutils.GenerateToken(cfg.Auth.JwtSecret, u.id, u.role, 24*time.Hour)
		if err != nil {
			log.Fatalf("Error: Failed to sign %s token: %v", u.label, err)
		}
		fmt.Printf("%-6s %s\n", u.label, tok)
	}
}
