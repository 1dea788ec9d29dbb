package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hms/hms/internal/config"
	"github.com/hms/hms/internal/domain/clinic"
	"github.com/hms/hms/internal/platform/csvstore"
	"github.com/hms/hms/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hms-server",
		Short: "Hospital scheduling API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(appointmentsCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).Level(level).With().Timestamp().Logger()
	}
	return logger
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the scheduling API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	reg := clinic.NewMemoryRegistry()
	svc := clinic.NewService(reg, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Content-Type", "X-Request-ID"},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})

	apiV1 := e.Group("/api/v1")
	clinic.NewHandler(svc).RegisterRoutes(apiV1)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

func appointmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "appointments",
		Short: "Import or export appointment record files",
	}

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Load appointment records from a file into a seeded registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if file == "" {
				file = cfg.AppointmentsFile
			}
			logger := newLogger(cfg)

			reg := clinic.NewMemoryRegistry()
			svc := clinic.NewService(reg, logger)
			if err := seedDemoGraph(svc); err != nil {
				return err
			}

			count, err := csvstore.New(file).Load(context.Background(), svc)
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d appointment(s) from %s.\n", count, file)
			return nil
		},
	}
	importCmd.Flags().String("file", "", "Path to the appointment record file")
	cmd.AddCommand(importCmd)

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the demo registry's appointments to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if file == "" {
				file = cfg.AppointmentsFile
			}
			logger := newLogger(cfg)

			reg := clinic.NewMemoryRegistry()
			svc := clinic.NewService(reg, logger)
			if err := seedDemoGraph(svc); err != nil {
				return err
			}
			if err := seedDemoAppointments(svc); err != nil {
				return err
			}

			count, err := csvstore.New(file).Save(context.Background(), svc)
			if err != nil {
				return err
			}
			fmt.Printf("Exported %d appointment(s) to %s.\n", count, file)
			return nil
		},
	}
	exportCmd.Flags().String("file", "", "Path to the appointment record file")
	cmd.AddCommand(exportCmd)

	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Print the demo entity graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			reg := clinic.NewMemoryRegistry()
			svc := clinic.NewService(reg, logger)
			if err := seedDemoGraph(svc); err != nil {
				return err
			}

			ctx := context.Background()
			for _, h := range svc.ListHospitals(ctx) {
				fmt.Printf("hospital %s (%d departments, %d patients)\n",
					h.Name(), len(h.Departments()), len(h.Patients()))
			}
			for _, d := range svc.ListDoctors(ctx) {
				fmt.Printf("doctor %s [%s] %s\n", d.FullName(), d.NationalID(), d.Specialty())
			}
			for _, p := range svc.ListPatients(ctx) {
				fmt.Printf("patient %s [%s] record %s\n", p.FullName(), p.NationalID(), p.Record().Number())
			}
			return nil
		},
	}
}

// seedDemoGraph builds the minimal graph the import path needs: a hospital
// with a cardiology department, one room, one doctor and one patient.
func seedDemoGraph(svc *clinic.Service) error {
	ctx := context.Background()

	h, err := svc.RegisterHospital(ctx, clinic.HospitalConfig{
		Name:    "Hospital Central",
		Address: "Av. Principal 1200",
		Phone:   "+54-11-4000-1000",
	})
	if err != nil {
		return err
	}
	dept, err := svc.CreateDepartment(ctx, h.ID(), "Cardiology", clinic.SpecialtyCardiology)
	if err != nil {
		return err
	}
	if _, err := svc.CreateRoom(ctx, dept.ID(), "101", "Consult"); err != nil {
		return err
	}
	if _, err := svc.HireDoctor(ctx, dept.ID(), clinic.DoctorConfig{
		PersonConfig: clinic.PersonConfig{
			FirstName:  "Laura",
			LastName:   "Gomez",
			NationalID: "30111222",
			BirthDate:  time.Date(1980, 5, 12, 0, 0, 0, 0, time.UTC),
			BloodType:  clinic.BloodAPos,
		},
		License:   "MN-55012",
		Specialty: clinic.SpecialtyCardiology,
	}); err != nil {
		return err
	}
	if _, err := svc.AdmitPatient(ctx, h.ID(), clinic.PatientConfig{
		PersonConfig: clinic.PersonConfig{
			FirstName:  "Carlos",
			LastName:   "Funes",
			NationalID: "28345678",
			BirthDate:  time.Date(1975, 9, 3, 0, 0, 0, 0, time.UTC),
			BloodType:  clinic.BloodONeg,
		},
		Phone:   "+54-11-5555-0199",
		Address: "Calle Falsa 123",
	}); err != nil {
		return err
	}
	return nil
}

func seedDemoAppointments(svc *clinic.Service) error {
	_, err := svc.ScheduleAppointment(context.Background(), clinic.ScheduleRequest{
		PatientNationalID: "28345678",
		DoctorNationalID:  "30111222",
		RoomNumber:        "101",
		Time:              time.Now().Add(48 * time.Hour).Truncate(time.Second),
		Cost:              1500.50,
		Notes:             "first consult",
	})
	return err
}
