package steps

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/outfitting-go/internal/adapters/persistence"
	"github.com/andrescamacho/outfitting-go/internal/application/common"
	"github.com/andrescamacho/outfitting-go/internal/application/outfitting/commands"
	"github.com/andrescamacho/outfitting-go/internal/application/outfitting/queries"
	"github.com/andrescamacho/outfitting-go/internal/domain/outfitting"
	"github.com/andrescamacho/outfitting-go/internal/domain/shared"
	"github.com/andrescamacho/outfitting-go/test/helpers"
)

type savedBuildContext struct {
	mediator common.Mediator
	clock    *shared.MockClock
	repo     *persistence.GormBuildRepository
	saved    map[string]*outfitting.SavedBuild
	err      error
}

func InitializeSavedBuildScenario(ctx *godog.ScenarioContext) {
	sc := &savedBuildContext{}

	ctx.Step(`^an empty build store$`, sc.anEmptyBuildStore)
	ctx.Step(`^an hour passes$`, sc.anHourPasses)

	ctx.Step(`^I save the standard fit as "([^"]*)"$`, sc.iSaveTheStandardFitAs)
	ctx.Step(`^I save the code "([^"]*)" as "([^"]*)"$`, sc.iSaveTheCodeAs)
	ctx.Step(`^I rename the build "([^"]*)" to "([^"]*)"$`, sc.iRenameTheBuild)
	ctx.Step(`^I delete the build "([^"]*)"$`, sc.iDeleteTheBuild)
	ctx.Step(`^I delete the build with ID "([^"]*)"$`, sc.iDeleteTheBuildWithID)

	ctx.Step(`^the build store should hold (\d+) builds?$`, sc.theBuildStoreShouldHold)
	ctx.Step(`^the build "([^"]*)" should have unladen mass ([\d.]+) and cost (\d+)$`, sc.theBuildShouldHaveFigures)
	ctx.Step(`^the build "([^"]*)" should have code "([^"]*)"$`, sc.theBuildShouldHaveCode)
	ctx.Step(`^listing the builds should return "([^"]*)"$`, sc.listingTheBuildsShouldReturn)
	ctx.Step(`^the build request should fail with an? ([a-z ]+) error$`, sc.theBuildRequestShouldFailWith)
}

func (sc *savedBuildContext) anEmptyBuildStore() error {
	if err := helpers.TruncateAllTables(); err != nil {
		return err
	}

	sc.clock = shared.NewMockClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	sc.repo = persistence.NewGormBuildRepository(helpers.SharedTestDB)
	sc.saved = make(map[string]*outfitting.SavedBuild)
	sc.err = nil

	c := helpers.NewFixtureCatalog()
	factory := commands.NewShipFactory(c, c, commands.Pricing{})

	med := common.NewMediator()
	err := errors.Join(
		common.RegisterHandler[*commands.SaveBuildCommand](med, commands.NewSaveBuildHandler(factory, sc.repo, sc.clock)),
		common.RegisterHandler[*commands.RenameBuildCommand](med, commands.NewRenameBuildHandler(sc.repo)),
		common.RegisterHandler[*commands.DeleteBuildCommand](med, commands.NewDeleteBuildHandler(sc.repo)),
		common.RegisterHandler[*queries.ListSavedBuildsQuery](med, queries.NewListSavedBuildsHandler(sc.repo)),
	)
	if err != nil {
		return err
	}
	sc.mediator = med
	return nil
}

func (sc *savedBuildContext) anHourPasses() error {
	sc.clock.Advance(time.Hour)
	return nil
}

func (sc *savedBuildContext) iSaveTheStandardFitAs(name string) error {
	return sc.iSaveTheCodeAs(helpers.StandardFitCode, name)
}

func (sc *savedBuildContext) iSaveTheCodeAs(code, name string) error {
	resp, err := sc.mediator.Send(context.Background(), &commands.SaveBuildCommand{
		ShipID: helpers.TestShipID,
		Code:   code,
		Name:   name,
	})
	sc.err = err
	if err == nil {
		build := resp.(*commands.SaveBuildResponse).Build
		sc.saved[build.Name()] = build
	}
	return nil
}

func (sc *savedBuildContext) build(name string) (*outfitting.SavedBuild, error) {
	build, ok := sc.saved[name]
	if !ok {
		return nil, fmt.Errorf("no build saved as %q", name)
	}
	return build, nil
}

func (sc *savedBuildContext) iRenameTheBuild(from, to string) error {
	build, err := sc.build(from)
	if err != nil {
		return err
	}
	_, sc.err = sc.mediator.Send(context.Background(), &commands.RenameBuildCommand{BuildID: build.ID(), Name: to})
	return nil
}

func (sc *savedBuildContext) iDeleteTheBuild(name string) error {
	build, err := sc.build(name)
	if err != nil {
		return err
	}
	return sc.iDeleteTheBuildWithID(build.ID())
}

func (sc *savedBuildContext) iDeleteTheBuildWithID(id string) error {
	_, sc.err = sc.mediator.Send(context.Background(), &commands.DeleteBuildCommand{BuildID: id})
	return nil
}

func (sc *savedBuildContext) list() ([]*outfitting.SavedBuild, error) {
	resp, err := sc.mediator.Send(context.Background(), &queries.ListSavedBuildsQuery{})
	if err != nil {
		return nil, err
	}
	return resp.(*queries.ListSavedBuildsResponse).Builds, nil
}

func (sc *savedBuildContext) theBuildStoreShouldHold(n int) error {
	builds, err := sc.list()
	if err != nil {
		return err
	}
	if len(builds) != n {
		return fmt.Errorf("expected %d builds, found %d", n, len(builds))
	}
	return nil
}

// stored reads a build back from the database rather than the saved copy
func (sc *savedBuildContext) stored(name string) (*outfitting.SavedBuild, error) {
	build, err := sc.build(name)
	if err != nil {
		return nil, err
	}
	return sc.repo.FindByID(context.Background(), build.ID())
}

func (sc *savedBuildContext) theBuildShouldHaveFigures(name string, mass float64, cost int64) error {
	build, err := sc.stored(name)
	if err != nil {
		return err
	}
	if math.Abs(build.UnladenMass()-mass) > statTolerance {
		return fmt.Errorf("expected unladen mass %v, got %v", mass, build.UnladenMass())
	}
	if build.TotalCost() != cost {
		return fmt.Errorf("expected cost %d, got %d", cost, build.TotalCost())
	}
	return nil
}

func (sc *savedBuildContext) theBuildShouldHaveCode(name, code string) error {
	build, err := sc.stored(name)
	if err != nil {
		return err
	}
	if build.Code() != code {
		return fmt.Errorf("expected code %q, got %q", code, build.Code())
	}
	return nil
}

func (sc *savedBuildContext) listingTheBuildsShouldReturn(names string) error {
	builds, err := sc.list()
	if err != nil {
		return err
	}
	got := make([]string, len(builds))
	for i, b := range builds {
		got[i] = b.Name()
	}
	if strings.Join(got, ", ") != names {
		return fmt.Errorf("expected builds %q, got %q", names, strings.Join(got, ", "))
	}
	return nil
}

func (sc *savedBuildContext) theBuildRequestShouldFailWith(kind string) error {
	if sc.err == nil {
		return fmt.Errorf("expected a %s error, got none", kind)
	}
	var notFound *shared.BuildNotFoundError
	got := errorKind(sc.err)
	if errors.As(sc.err, &notFound) {
		got = "build not found"
	}
	if got != kind {
		return fmt.Errorf("expected a %s error, got %s: %v", kind, got, sc.err)
	}
	return nil
}
