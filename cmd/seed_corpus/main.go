package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/rispar0529/De-Sign/internal/entity"
	"github.com/rispar0529/De-Sign/internal/model"
	"github.com/rispar0529/De-Sign/internal/repository/implementation"
	"github.com/rispar0529/De-Sign/pkg/database"
	"github.com/rispar0529/De-Sign/pkg/embedding"
)

// seedClause is one vetted corpus entry before embedding.
type seedClause struct {
	Name      string
	Body      string
	RiskNotes string
}

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}
	geminiKey := os.Getenv("GOOGLE_GEMINI_API_KEY")
	if geminiKey == "" {
		log.Fatal("Error: GOOGLE_GEMINI_API_KEY is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Step 1: Setting up Extensions and Schema...")
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Fatalf("Error creating pgcrypto extension: %v", err)
	}
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS vector;`).Error; err != nil {
		log.Fatalf("Error creating vector extension: %v", err)
	}
	if err := db.AutoMigrate(&model.ReferenceClause{}); err != nil {
		log.Fatalf("Error migrating reference_clauses: %v", err)
	}

	ctx := context.Background()
	repo := implementation.NewReferenceClauseRepository(db)

	count, err := repo.Count(ctx)
	if err != nil {
		log.Fatalf("Error counting reference clauses: %v", err)
	}
	if count > 0 {
		log.Printf("Reference corpus already holds %d clauses, skipping seed", count)
		return
	}

	embedder := embedding.NewGeminiProvider(geminiKey)

	log.Println("Step 2: Embedding and inserting corpus clauses...")
	clauses := make([]*entity.ReferenceClause, 0, len(seedClauses))
	for _, seed := range seedClauses {
		resp, err := embedder.Generate(seed.Body, embedding.TaskRetrievalDocument)
		if err != nil {
			log.Fatalf("Error embedding clause '%s': %v", seed.Name, err)
		}
		clauses = append(clauses, &entity.ReferenceClause{
			ClauseName: seed.Name,
			Body:       seed.Body,
			RiskNotes:  seed.RiskNotes,
			Embedding:  resp.Embedding.Values,
		})
		log.Printf("Embedded clause: %s", seed.Name)
	}

	if err := repo.CreateBulk(ctx, clauses); err != nil {
		log.Fatalf("Error inserting corpus clauses: %v", err)
	}

	log.Printf("Corpus seeding completed: %d clauses inserted", len(clauses))
}

var seedClauses = []seedClause{
	{
		Name:      "Indemnification",
		Body:      "Each party shall indemnify, defend, and hold harmless the other party from and against any third-party claims, damages, and reasonable attorneys' fees arising out of the indemnifying party's breach of this Agreement, negligence, or willful misconduct.",
		RiskNotes: "One-way indemnification favoring a single party is a common red flag; look for mutual obligations and a cap tied to the liability clause.",
	},
	{
		Name:      "Limitation of Liability",
		Body:      "Except for breaches of confidentiality or indemnification obligations, neither party's aggregate liability shall exceed the fees paid or payable under this Agreement in the twelve (12) months preceding the claim, and neither party shall be liable for indirect, incidental, or consequential damages.",
		RiskNotes: "Uncapped liability, or carve-outs that swallow the cap, shift disproportionate risk onto one party.",
	},
	{
		Name:      "Intellectual Property Rights",
		Body:      "Each party retains all right, title, and interest in its pre-existing intellectual property. Deliverables created specifically for the client under this Agreement are assigned to the client upon full payment, excluding the supplier's background technology, which is licensed on a non-exclusive, royalty-free basis.",
		RiskNotes: "Watch for broad assignments that capture background IP, or licenses that terminate with the agreement.",
	},
	{
		Name:      "Confidentiality",
		Body:      "Each party shall protect the other party's Confidential Information with at least the same degree of care it uses for its own, and no less than reasonable care, and shall not disclose it to any third party except to employees and advisors with a need to know who are bound by comparable obligations. These obligations survive termination for five (5) years.",
		RiskNotes: "Missing survival periods and one-sided definitions of Confidential Information are frequent sources of dispute.",
	},
	{
		Name:      "Termination for Cause",
		Body:      "Either party may terminate this Agreement upon thirty (30) days' written notice if the other party materially breaches this Agreement and fails to cure the breach within the notice period. Either party may terminate immediately upon the other party's insolvency or assignment for the benefit of creditors.",
		RiskNotes: "Termination rights held by only one party, or cure periods under fourteen days, are typically high risk.",
	},
	{
		Name:      "Governing Law & Jurisdiction",
		Body:      "This Agreement shall be governed by and construed in accordance with the laws of the agreed jurisdiction, without regard to its conflict of laws principles. The parties consent to the exclusive jurisdiction of the courts located in that jurisdiction for any dispute arising under this Agreement.",
		RiskNotes: "A missing governing-law clause leaves dispute venue unpredictable; mandatory arbitration in a distant forum raises cost risk.",
	},
	{
		Name:      "Data Privacy & Security",
		Body:      "Each party shall comply with all applicable data protection laws in connection with personal data processed under this Agreement, implement appropriate technical and organizational safeguards, and notify the other party without undue delay upon becoming aware of a personal data breach.",
		RiskNotes: "Absent breach-notification duties or undefined safeguard standards leave the data controller carrying regulatory exposure alone.",
	},
	{
		Name:      "Force Majeure",
		Body:      "Neither party shall be liable for any failure or delay in performance due to causes beyond its reasonable control, including acts of God, war, terrorism, labor disputes, or governmental action, provided the affected party gives prompt notice and resumes performance as soon as practicable.",
		RiskNotes: "Clauses that excuse payment obligations, or lack a termination right after prolonged force majeure, are unbalanced.",
	},
}
