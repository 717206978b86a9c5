//go:build wireinject
// +build wireinject

package main

import (
	"github.com/Jacobbrewer1/invoicer/pkg/logging"
	"github.com/google/wire"
	"github.com/gorilla/mux"
)

func InitializeApp() (*App, func(), error) {
	wire.Build(
		wire.Value(logging.Name(AppName)),
		logging.NewConfig,
		logging.CommonLogger,
		mux.NewRouter,
		loadConfig,
		newSession,
		newSellAuthClient,
		newStoreBackend,
		newGuildConfigStore,
		newInvoiceCache,
		newInvoiceFetcher,
		newDiscordPlatform,
		newTicketManager,
		NewApp,
	)
	return nil, nil, nil
}
