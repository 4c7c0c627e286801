package handlers

import (
	"log"

	"prediction-pool-system/middleware"
	"prediction-pool-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupPoolRoutes(app *fiber.App, pools *services.PoolService, orchestrator *services.RankingOrchestrator) {
	// 🔓 Public
	app.Get("/pools/global", func(c *fiber.Ctx) error {
		pool, err := pools.GetOrCreateGlobalPool()
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(pool)
	})

	// 🔐 Authenticated
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Post("/pools", func(c *fiber.Ctx) error {
		type Req struct {
			Name string `json:"name"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
		}
		pool, err := pools.CreateGroupPoolWithPicks(req.Name, middleware.UserID(c))
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(pool)
	})

	secured.Post("/pools/join", func(c *fiber.Ctx) error {
		type Req struct {
			InviteCode string `json:"invite_code"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
		}
		if req.InviteCode == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invite_code is required"})
		}
		pool, err := pools.JoinGroupPool(req.InviteCode, middleware.UserID(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(pool)
	})

	secured.Get("/pools/mine", func(c *fiber.Ctx) error {
		list, err := pools.GetUserPools(middleware.UserID(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(list)
	})

	secured.Get("/pools/:id", func(c *fiber.Ctx) error {
		pool, err := pools.GetPoolByID(c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(pool)
	})

	secured.Get("/pools/:id/participants", func(c *fiber.Ctx) error {
		participants, err := pools.GetPoolParticipants(c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(participants)
	})

	secured.Delete("/pools/:id", func(c *fiber.Ctx) error {
		pool, err := pools.GetPoolByID(c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		// Only the creator may delete a pool.
		if pool.CreatorID != middleware.UserID(c) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "only the pool creator can delete it"})
		}
		if err := pools.DeletePool(pool.ID); err != nil {
			return fail(c, err)
		}
		if err := orchestrator.RecalculateGlobal(); err != nil {
			log.Printf("global recompute after pool delete failed: %v", err)
		}
		return c.JSON(fiber.Map{"message": "pool deleted"})
	})

	secured.Delete("/pools/:id/participants/:user_id", func(c *fiber.Ctx) error {
		poolID := c.Params("id")
		pool, err := pools.GetPoolByID(poolID)
		if err != nil {
			return fail(c, err)
		}
		caller := middleware.UserID(c)
		target := c.Params("user_id")
		if caller != target && caller != pool.CreatorID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "only the creator can remove other participants"})
		}
		if err := pools.RemoveParticipant(poolID, target); err != nil {
			return fail(c, err)
		}
		if err := orchestrator.RecalculateForPool(poolID); err != nil {
			log.Printf("recompute after participant removal failed: %v", err)
		}
		return c.JSON(fiber.Map{"message": "participant removed"})
	})
}
